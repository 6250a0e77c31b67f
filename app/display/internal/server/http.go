package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/zhujingtong/app/display/internal/conf"
	"github.com/iWorld-y/zhujingtong/app/display/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.PlannerService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	service.RegisterPlannerHTTPServer(srv, s)
	return srv
}
