package cbfarm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/user"
	"time"

	"github.com/VSPipe/colorbleed-config/internal/asset"
	"github.com/VSPipe/colorbleed-config/internal/audit"
	"github.com/VSPipe/colorbleed-config/internal/config"
	"github.com/VSPipe/colorbleed-config/internal/deadline"
	"github.com/VSPipe/colorbleed-config/internal/handoff"
	"github.com/VSPipe/colorbleed-config/internal/job"
	"github.com/VSPipe/colorbleed-config/internal/submit"
)

// DefaultTimeout bounds each farm request when the config sets none.
const DefaultTimeout = 60 * time.Second

// DefaultQueue is the redis list used when handoff.redis.queue is empty.
const DefaultQueue = "cbfarm:publish"

const postgresPingTimeout = 5 * time.Second

// applyDefaults fills unset fields of cfg in place.
func applyDefaults(cfg *config.Config) {
	if cfg.Deadline.URL == "" {
		cfg.Deadline.URL = deadline.DefaultURL
	}
	if cfg.Deadline.Timeout == 0 {
		cfg.Deadline.Timeout = DefaultTimeout
	}
	if cfg.Deadline.User == "" {
		if u, err := user.Current(); err == nil {
			cfg.Deadline.User = u.Username
		}
	}
	if len(cfg.Environment.Keys) == 0 {
		cfg.Environment.Keys = append([]string(nil), job.DefaultEnvironmentKeys...)
	}
	if cfg.Environment.ToolKey == "" {
		cfg.Environment.ToolKey = job.DefaultToolKey
	}
	if cfg.Environment.RenderTool == "" {
		cfg.Environment.RenderTool = job.DefaultRenderTool
	}
	if cfg.Submit.Kind == "" {
		cfg.Submit.Kind = submit.KindVrscene
	}
}

// newStore opens the configured asset store. The returned closer is nil when
// nothing needs closing.
func newStore(ctx context.Context, cfg config.AssetsConfig, project string) (asset.Store, io.Closer, error) {
	switch cfg.Type {
	case "":
		return nil, nil, nil
	case "file":
		s, err := asset.LoadFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "postgres":
		db, err := asset.OpenPostgres(ctx, cfg.DatabaseURL, postgresPingTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("asset database: %w", err)
		}
		return asset.NewPostgresStore(db, project), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown asset store type '%s'", cfg.Type)
	}
}

func newAuditSink(cfg config.AuditConfig) (audit.Sink, error) {
	switch cfg.Type {
	case "":
		return audit.Nop{}, nil
	case "dir":
		dir := cfg.Dir
		if dir == "" {
			dir = audit.DefaultDir()
		}
		s, err := audit.NewDirSink(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := audit.NewMinIOSink(audit.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Region:    cfg.MinIO.Region,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown audit type '%s'", cfg.Type)
	}
}

func newHandoffSink(cfg config.HandoffConfig) (handoff.Sink, io.Closer, error) {
	switch cfg.Type {
	case "":
		return handoff.Nop{}, nil, nil
	case "file":
		return &handoff.FileSink{Path: cfg.Path}, nil, nil
	case "redis":
		queue := cfg.Redis.Queue
		if queue == "" {
			queue = DefaultQueue
		}
		sink, client, err := handoff.NewRedisSink(handoff.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Queue:    queue,
		})
		if err != nil {
			return nil, nil, err
		}
		return sink, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown handoff type '%s'", cfg.Type)
	}
}

func newBuilder(cfg *config.Config, lookup job.LookupFunc, logger *slog.Logger) *job.Builder {
	return &job.Builder{
		Environment: job.BuildEnvironment(cfg.Environment.Keys, lookup, cfg.Environment.Session),
		ToolKey:     cfg.Environment.ToolKey,
		RenderTool:  cfg.Environment.RenderTool,
		DefaultUser: cfg.Deadline.User,
		Pool:        cfg.Deadline.Pool,
		Priority:    cfg.Deadline.Priority,
		Logger:      logger,
	}
}

func newRegistry(farm submit.JobPoster, b *job.Builder, a audit.Sink, h handoff.Sink, logger *slog.Logger) *submit.Registry {
	reg := submit.NewRegistry()
	reg.Register(submit.KindVrscene, &submit.VrsceneSubmitter{
		Farm:    farm,
		Builder: b,
		Audit:   a,
		Handoff: h,
		Logger:  logger,
	})
	return reg
}
