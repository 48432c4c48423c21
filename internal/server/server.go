package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/teampulse/internal/auth"
	authdomain "github.com/smallbiznis/teampulse/internal/auth/domain"
	"github.com/smallbiznis/teampulse/internal/auth/session"
	"github.com/smallbiznis/teampulse/internal/clock"
	"github.com/smallbiznis/teampulse/internal/config"
	"github.com/smallbiznis/teampulse/internal/evaluation"
	evaldomain "github.com/smallbiznis/teampulse/internal/evaluation/domain"
	"github.com/smallbiznis/teampulse/internal/observability"
	obsmiddleware "github.com/smallbiznis/teampulse/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/teampulse/internal/observability/metrics"
	obstracing "github.com/smallbiznis/teampulse/internal/observability/tracing"
	"github.com/smallbiznis/teampulse/internal/period"
	"github.com/smallbiznis/teampulse/internal/question"
	questiondomain "github.com/smallbiznis/teampulse/internal/question/domain"
	"github.com/smallbiznis/teampulse/internal/ranking"
	rankingdomain "github.com/smallbiznis/teampulse/internal/ranking/domain"
	"github.com/smallbiznis/teampulse/internal/ratelimit"
	"github.com/smallbiznis/teampulse/internal/team"
	teamdomain "github.com/smallbiznis/teampulse/internal/team/domain"
	"github.com/smallbiznis/teampulse/internal/user"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	user.Module,
	question.Module,
	team.Module,
	evaluation.Module,
	ranking.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	resolution    period.Resolution
	clock         clock.Clock
	sessions      *session.Manager
	authSvc       authdomain.Service
	userSvc       userdomain.Service
	questionSvc   questiondomain.Service
	teamSvc       teamdomain.Service
	answerSvc     evaldomain.Service
	rankingSvc    rankingdomain.Service
	submitLimiter *ratelimit.SubmitLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Clock         clock.Clock
	Sessions      *session.Manager
	AuthSvc       authdomain.Service
	UserSvc       userdomain.Service
	QuestionSvc   questiondomain.Service
	TeamSvc       teamdomain.Service
	AnswerSvc     evaldomain.Service
	RankingSvc    rankingdomain.Service
	SubmitLimiter *ratelimit.SubmitLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) (*Server, error) {
	resolution, err := period.ParseResolution(p.Cfg.PeriodResolution)
	if err != nil {
		return nil, err
	}

	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		resolution:    resolution,
		clock:         p.Clock,
		sessions:      p.Sessions,
		authSvc:       p.AuthSvc,
		userSvc:       p.UserSvc,
		questionSvc:   p.QuestionSvc,
		teamSvc:       p.TeamSvc,
		answerSvc:     p.AnswerSvc,
		rankingSvc:    p.RankingSvc,
		submitLimiter: p.SubmitLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc, nil
}

func (s *Server) registerAuthRoutes() {
	grp := s.engine.Group("/auth")
	grp.POST("/login", s.Login)
	grp.POST("/logout", s.RequireSession(), s.Logout)
	grp.GET("/me", s.RequireSession(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.RequireSession())

	api.POST("/users", s.RequireRole(userdomain.RoleAdmin), s.CreateUser)
	api.GET("/users", s.RequireRole(userdomain.RoleAdmin), s.ListUsers)

	api.POST("/questions", s.RequireRole(userdomain.RoleAdmin), s.CreateQuestion)
	api.GET("/questions", s.ListQuestions)

	api.POST("/teams/generate", s.RequireRole(userdomain.RoleAdmin), s.GenerateTeams)
	api.GET("/teams", s.ListTeams)
	api.GET("/teams/:id/members", s.TeamMembers)
	api.POST("/teams/:id/move-member", s.RequireRole(userdomain.RoleAdmin), s.MoveMember)

	api.POST("/answers", s.SubmitAnswer)
	api.GET("/answers", s.ListAnswers)

	api.GET("/rankings", s.GetRanking)
	api.POST("/rankings/recompute", s.RequireRole(userdomain.RoleAdmin), s.RecomputeRanking)
}
