package loader

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/internal/attr"
	"github.com/Faultbox/geoscope/internal/config"
	"github.com/Faultbox/geoscope/pkg/gocad"
)

// DetectFunc groups a mesh's raw series into attribute families.
type DetectFunc func(raw map[string][]float64) []attr.Family

// Loader owns the decode repository and the loaded model sessions.
// Files within one model load sequentially in configuration order; a
// new load supersedes and cancels any load still in flight.
type Loader struct {
	repo   *Repository
	detect DetectFunc
	log    *zap.Logger

	mu         sync.Mutex
	models     map[string]*LoadedModel
	cancelPrev context.CancelFunc
}

// NewLoader assembles a loader. A nil decode defaults to gocad.Decode,
// a nil detect to attr.DetectFamilies, a nil log to a no-op logger.
func NewLoader(fetcher Fetcher, decode DecodeFunc, detect DetectFunc, log *zap.Logger) *Loader {
	if decode == nil {
		decode = gocad.Decode
	}
	if detect == nil {
		detect = attr.DetectFamilies
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		repo:   NewRepository(fetcher, decode),
		detect: detect,
		log:    log,
		models: make(map[string]*LoadedModel),
	}
}

// Repository exposes the decode cache, mainly for tests and stats.
func (l *Loader) Repository() *Repository {
	return l.repo
}

// LoadModel loads every file of the model config, decoding through the
// repository, detecting families, and normalizing geometry into the
// unit frame. Per-file failures are logged and recorded on the model;
// siblings continue loading. Only cancellation fails the whole load.
func (l *Loader) LoadModel(ctx context.Context, cfg config.ModelConfig) (*LoadedModel, error) {
	ctx = l.supersede(ctx)

	model := &LoadedModel{Name: cfg.Name}
	var diags error

	for _, file := range cfg.Files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load of model %q superseded: %w", cfg.Name, err)
		}

		meshes, err := l.loadFile(ctx, file)
		if err != nil {
			l.log.Warn("survey file failed to load, continuing with siblings",
				zap.String("model", cfg.Name),
				zap.String("file", file.Path),
				zap.Error(err))
			diags = multierr.Append(diags, fmt.Errorf("%s: %w", file.Path, err))
			model.Files = append(model.Files, newFileEntry(file, nil, l.detect))
			continue
		}

		entry := newFileEntry(file, meshes, l.detect)
		model.Files = append(model.Files, entry)
		l.log.Debug("survey file loaded",
			zap.String("file", file.Path),
			zap.Int("meshes", len(meshes)))
	}

	Normalize(model, l.log)
	model.Diags = diags

	l.mu.Lock()
	prev := l.models[cfg.Name]
	l.models[cfg.Name] = model
	l.mu.Unlock()

	// A reload replaces the previous session; its raw-mesh render
	// handles must not outlive it.
	if prev != nil {
		for _, e := range prev.Files {
			e.releaseRenders()
		}
	}

	l.log.Info("model loaded",
		zap.String("model", cfg.Name),
		zap.Int("files", len(model.Files)),
		zap.Bool("partial", diags != nil))
	return model, nil
}

// loadFile resolves one file through the decode repository.
func (l *Loader) loadFile(ctx context.Context, file config.ModelFile) ([]*gocad.Mesh, error) {
	format, err := gocad.ParseFormat(string(file.Type))
	if err != nil {
		return nil, err
	}
	return l.repo.Meshes(ctx, file.Path, format)
}

// supersede cancels the previous in-flight load and returns a context
// scoped to this one.
func (l *Loader) supersede(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if l.cancelPrev != nil {
		l.cancelPrev()
	}
	l.cancelPrev = cancel
	l.mu.Unlock()
	return ctx
}

// Model returns a loaded model by name.
func (l *Loader) Model(name string) (*LoadedModel, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.models[name]
	return m, ok
}

// RemoveModel unloads a model and releases its raw-mesh render handles.
// Contour geometry is owned and released by the orchestrator.
func (l *Loader) RemoveModel(name string) {
	l.mu.Lock()
	m, ok := l.models[name]
	delete(l.models, name)
	l.mu.Unlock()

	if !ok {
		return
	}
	for _, e := range m.Files {
		e.releaseRenders()
	}
	l.log.Info("model removed", zap.String("model", name))
}

// ApplyStress rebuilds every derived series of the model from its raw
// components under the given stress parameters. Always a full recompute:
// previous derived series are discarded first.
func (l *Loader) ApplyStress(model *LoadedModel, p attr.StressParameters, mapper attr.RegimeMapper) {
	p = p.Clamp()
	for _, entry := range model.Files {
		for i, mesh := range entry.RawMeshes {
			entry.Derived[i] = make(map[string][]float64)
			for _, fam := range entry.Families[i] {
				if fam.Width() < 2 {
					continue
				}
				serie, err := attr.WeightedSum(mesh, fam, p, mapper)
				if err != nil {
					l.log.Warn("skipping family recombination",
						zap.String("file", entry.File.Path),
						zap.String("family", fam.Name),
						zap.Error(err))
					continue
				}
				entry.Derived[i][fam.Name] = serie
			}
		}
	}
	l.log.Debug("derived attributes recomputed",
		zap.String("model", model.Name),
		zap.Float64("r", p.R),
		zap.Float64("theta", p.Theta))
}
