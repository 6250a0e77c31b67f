package service

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/zhujingtong/app/display/internal/usecase"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/engine"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

const (
	OperationCreateSession   = "/planner.v1.Planner/CreateSession"
	OperationGetSession      = "/planner.v1.Planner/GetSession"
	OperationSaveCommunity   = "/planner.v1.Planner/SaveCommunity"
	OperationUploadImages    = "/planner.v1.Planner/UploadImages"
	OperationAnalyze         = "/planner.v1.Planner/Analyze"
	OperationGeneratePlan    = "/planner.v1.Planner/GeneratePlan"
	OperationEditProject     = "/planner.v1.Planner/EditProject"
	OperationCompileReport   = "/planner.v1.Planner/CompileReport"
	OperationSubmitFeedback  = "/planner.v1.Planner/SubmitFeedback"
	OperationFeedbackSummary = "/planner.v1.Planner/FeedbackSummary"
	OperationFeedbackHistory = "/planner.v1.Planner/FeedbackHistory"
	OperationParticipation   = "/planner.v1.Planner/Participation"
	OperationListExperts     = "/planner.v1.Planner/ListExperts"
	OperationAddExpert       = "/planner.v1.Planner/AddExpert"
	OperationCastVote        = "/planner.v1.Planner/CastVote"
	OperationVoteResults     = "/planner.v1.Planner/VoteResults"
	OperationSimulate        = "/planner.v1.Planner/Simulate"
	OperationListReports     = "/planner.v1.Planner/ListReports"
	OperationGetReport       = "/planner.v1.Planner/GetReport"
)

// 错误原因
const (
	ReasonInvalidParameters  = "INVALID_PARAMETERS"
	ReasonIndexOutOfRange    = "INDEX_OUT_OF_RANGE"
	ReasonInconsistentSchema = "INCONSISTENT_SCHEMA"
)

type PlannerService struct {
	planner  *usecase.PlannerUseCase
	feedback *usecase.FeedbackUseCase
	log      *log.Helper
}

func NewPlannerService(planner *usecase.PlannerUseCase, feedback *usecase.FeedbackUseCase, logger log.Logger) *PlannerService {
	return &PlannerService{
		planner:  planner,
		feedback: feedback,
		log:      log.NewHelper(logger),
	}
}

// RegisterPlannerHTTPServer 注册 /api/v1 下的全部路由
func RegisterPlannerHTTPServer(s *http.Server, srv *PlannerService) {
	r := s.Route("/api/v1")
	r.POST("/sessions", srv.createSession)
	r.GET("/sessions/{id}", srv.getSession)
	r.PUT("/sessions/{id}/community", srv.saveCommunity)
	r.POST("/sessions/{id}/images", srv.uploadImages)
	r.POST("/sessions/{id}/analysis", srv.analyze)
	r.POST("/sessions/{id}/plan", srv.generatePlan)
	r.PATCH("/sessions/{id}/plan/projects/{index}", srv.editProject)
	r.POST("/sessions/{id}/report", srv.compileReport)
	r.POST("/sessions/{id}/feedback", srv.submitFeedback)
	r.GET("/sessions/{id}/feedback", srv.feedbackHistory)
	r.GET("/sessions/{id}/feedback/summary", srv.feedbackSummary)
	r.GET("/sessions/{id}/participation", srv.participation)
	r.GET("/sessions/{id}/experts", srv.listExperts)
	r.POST("/sessions/{id}/experts", srv.addExpert)
	r.POST("/sessions/{id}/votes", srv.castVote)
	r.GET("/sessions/{id}/votes", srv.voteResults)
	r.POST("/simulations/coverage", srv.simulateCoverage)
	r.POST("/simulations/satisfaction", srv.simulateSatisfaction)
	r.POST("/simulations/cost-benefit", srv.simulateCostBenefit)
	r.GET("/reports", srv.listReports)
	r.GET("/reports/{id}", srv.getReport)
}

// serve 走 kratos 中间件链执行 fn 并输出 JSON
func serve[T any](ctx http.Context, operation string, fn func(context.Context) (T, error)) error {
	http.SetOperation(ctx, operation)
	h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
		return fn(c)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return encodeError(err)
	}
	return ctx.Result(200, out)
}

// encodeError 将引擎错误转换为带原因的 kratos 错误
func encodeError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidParameters):
		return errors.BadRequest(ReasonInvalidParameters, err.Error())
	case errors.Is(err, engine.ErrIndexOutOfRange):
		return errors.BadRequest(ReasonIndexOutOfRange, err.Error())
	case errors.Is(err, engine.ErrInconsistentSchema):
		return errors.Conflict(ReasonInconsistentSchema, err.Error())
	}
	return err
}

func bind(ctx http.Context, v interface{}) error {
	if err := ctx.Bind(v); err != nil {
		return errors.BadRequest(ReasonInvalidParameters, err.Error())
	}
	return nil
}

func (s *PlannerService) createSession(ctx http.Context) error {
	return serve(ctx, OperationCreateSession, s.planner.CreateSession)
}

func (s *PlannerService) getSession(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationGetSession, func(c context.Context) (interface{}, error) {
		return s.planner.GetSession(c, id)
	})
}

func (s *PlannerService) saveCommunity(ctx http.Context) error {
	var in model.CommunityData
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationSaveCommunity, func(c context.Context) (interface{}, error) {
		return s.planner.SaveCommunity(c, id, &in)
	})
}

type uploadImagesRequest struct {
	Images []detector.Image `json:"images"`
}

func (s *PlannerService) uploadImages(ctx http.Context) error {
	var in uploadImagesRequest
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationUploadImages, func(c context.Context) (interface{}, error) {
		return s.planner.AddImages(c, id, in.Images)
	})
}

type analyzeRequest struct {
	Records []model.DetectionRecord `json:"records"`
}

func (s *PlannerService) analyze(ctx http.Context) error {
	var in analyzeRequest
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationAnalyze, func(c context.Context) (interface{}, error) {
		return s.planner.Analyze(c, id, in.Records)
	})
}

func (s *PlannerService) generatePlan(ctx http.Context) error {
	var in model.PlanParameters
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationGeneratePlan, func(c context.Context) (interface{}, error) {
		return s.planner.GeneratePlan(c, id, in)
	})
}

func (s *PlannerService) editProject(ctx http.Context) error {
	var in engine.ProjectEdit
	if err := bind(ctx, &in); err != nil {
		return err
	}
	index, err := strconv.Atoi(ctx.Vars().Get("index"))
	if err != nil {
		return errors.BadRequest(ReasonInvalidParameters, "project index must be an integer")
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationEditProject, func(c context.Context) (interface{}, error) {
		return s.planner.EditProject(c, id, index, in)
	})
}

func (s *PlannerService) compileReport(ctx http.Context) error {
	var in usecase.CompileOptions
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationCompileReport, func(c context.Context) (interface{}, error) {
		return s.planner.CompileReport(c, id, in)
	})
}

func (s *PlannerService) submitFeedback(ctx http.Context) error {
	var in model.FeedbackEntry
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationSubmitFeedback, func(c context.Context) (interface{}, error) {
		return s.feedback.Submit(c, id, in)
	})
}

func (s *PlannerService) feedbackSummary(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationFeedbackSummary, func(c context.Context) (interface{}, error) {
		return s.feedback.Summary(c, id)
	})
}

func (s *PlannerService) feedbackHistory(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationFeedbackHistory, func(c context.Context) (interface{}, error) {
		return s.feedback.History(c, id)
	})
}

func (s *PlannerService) participation(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationParticipation, func(c context.Context) (interface{}, error) {
		return s.feedback.Participation(c, id)
	})
}

func (s *PlannerService) listExperts(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationListExperts, func(c context.Context) (interface{}, error) {
		return s.feedback.Experts(c, id)
	})
}

func (s *PlannerService) addExpert(ctx http.Context) error {
	var in model.ExpertOpinion
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationAddExpert, func(c context.Context) (interface{}, error) {
		return s.feedback.AddExpertOpinion(c, id, in)
	})
}

type voteRequest struct {
	Topic  string            `json:"topic"`
	Choice engine.VoteChoice `json:"choice"`
}

func (s *PlannerService) castVote(ctx http.Context) error {
	var in voteRequest
	if err := bind(ctx, &in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationCastVote, func(c context.Context) (interface{}, error) {
		return s.feedback.Vote(c, id, in.Topic, in.Choice)
	})
}

func (s *PlannerService) voteResults(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	return serve(ctx, OperationVoteResults, func(c context.Context) (interface{}, error) {
		return s.feedback.VoteResults(c, id)
	})
}

func (s *PlannerService) simulateCoverage(ctx http.Context) error {
	var in struct {
		Target float64 `json:"target"`
	}
	if err := bind(ctx, &in); err != nil {
		return err
	}
	return serve(ctx, OperationSimulate, func(context.Context) (interface{}, error) {
		return engine.SimulateCoverage(in.Target)
	})
}

func (s *PlannerService) simulateSatisfaction(ctx http.Context) error {
	var in struct {
		Improvement int `json:"improvement"`
	}
	if err := bind(ctx, &in); err != nil {
		return err
	}
	return serve(ctx, OperationSimulate, func(context.Context) (interface{}, error) {
		return engine.SimulateSatisfaction(in.Improvement)
	})
}

func (s *PlannerService) simulateCostBenefit(ctx http.Context) error {
	var in struct {
		Costs    []float64 `json:"costs"`
		Benefits []float64 `json:"benefits"`
	}
	if err := bind(ctx, &in); err != nil {
		return err
	}
	return serve(ctx, OperationSimulate, func(context.Context) (interface{}, error) {
		return engine.CostBenefit(in.Costs, in.Benefits)
	})
}

func (s *PlannerService) listReports(ctx http.Context) error {
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	return serve(ctx, OperationListReports, func(c context.Context) (interface{}, error) {
		return s.planner.ListReports(c, page, pageSize)
	})
}

func (s *PlannerService) getReport(ctx http.Context) error {
	id, err := strconv.Atoi(ctx.Vars().Get("id"))
	if err != nil {
		return errors.BadRequest(ReasonInvalidParameters, "report id must be an integer")
	}
	return serve(ctx, OperationGetReport, func(c context.Context) (interface{}, error) {
		return s.planner.GetReport(c, id)
	})
}
