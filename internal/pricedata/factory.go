package pricedata

import (
	"fmt"

	"github.com/wonny/eventstudy/internal/contracts"
	"github.com/wonny/eventstudy/internal/studyconfig"
	"github.com/wonny/eventstudy/pkg/config"
	"github.com/wonny/eventstudy/pkg/httputil"
	"github.com/wonny/eventstudy/pkg/logger"
)

// Deps are the shared handles sources are built from.
// DB and HTTP may be nil when no asset needs them.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	DB     Querier
	HTTP   *httputil.Client
}

// NewSource builds the price source for one configured asset
func NewSource(name string, asset studyconfig.Asset, deps Deps) (contracts.PriceSource, error) {
	from, to, err := asset.Range()
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", name, err)
	}

	switch asset.Source {
	case studyconfig.SourceCSV:
		path := asset.Path
		if deps.Config != nil {
			path = deps.Config.ResolveDataPath(path)
		}
		return NewCSVSource(path).WithRange(from, to), nil

	case studyconfig.SourcePostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("asset %s: postgres source requires DATABASE_URL", name)
		}
		return NewPostgresSource(NewPriceRepository(deps.DB), asset.SourceCode(name)).WithRange(from, to), nil

	case studyconfig.SourceNaver:
		if deps.HTTP == nil {
			return nil, fmt.Errorf("asset %s: naver source requires an HTTP client", name)
		}
		baseURL := config.DefaultNaverChartBaseURL
		if deps.Config != nil && deps.Config.Naver.ChartBaseURL != "" {
			baseURL = deps.Config.Naver.ChartBaseURL
		}
		log := deps.Logger
		if log == nil {
			log = logger.Nop()
		}
		return NewNaverSource(deps.HTTP, log, baseURL, asset.SourceCode(name)).WithRange(from, to), nil

	default:
		return nil, fmt.Errorf("asset %s: unknown source %q", name, asset.Source)
	}
}

// NewSources builds sources for every configured asset
func NewSources(cfg *studyconfig.Config, deps Deps) (map[string]contracts.PriceSource, error) {
	sources := make(map[string]contracts.PriceSource, len(cfg.Assets))
	for _, name := range cfg.AssetNames() {
		src, err := NewSource(name, cfg.Assets[name], deps)
		if err != nil {
			return nil, err
		}
		sources[name] = src
	}
	return sources, nil
}
