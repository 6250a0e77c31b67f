package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/zhujingtong/app/display/internal/data"
	"github.com/iWorld-y/zhujingtong/app/display/internal/service"
	"github.com/iWorld-y/zhujingtong/app/display/internal/usecase"
)

// ProviderSet 是规划服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewPlannerEngine,

	// Data providers
	data.NewData,
	data.NewSessionRepo,
	data.NewReportRepo,

	// UseCase providers
	usecase.NewPlannerUseCase,
	usecase.NewFeedbackUseCase,

	// Service providers
	service.NewPlannerService,
)
