package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"session-analytics-service/internal/cube/core/domain"
	"session-analytics-service/internal/cube/core/ports"
	sessdomain "session-analytics-service/internal/sessions/core/domain"
)

const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

var ErrInvalidFormat = errors.New("invalid export format")

type ExportCubeUseCase struct {
	reader ports.SessionReaderPort
	binner ports.BinnerPort
	log    *zap.SugaredLogger
}

func NewExportCubeUseCase(reader ports.SessionReaderPort, binner ports.BinnerPort, log *zap.SugaredLogger) *ExportCubeUseCase {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ExportCubeUseCase{reader: reader, binner: binner, log: log}
}

// ValidateFormat accepts "", "tsv" and "json".
func ValidateFormat(format string) (string, error) {
	switch format {
	case "", FormatTSV:
		return FormatTSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", ErrInvalidFormat
	}
}

func (uc *ExportCubeUseCase) Execute(ctx context.Context) (*domain.Cube, error) {
	start := time.Now()
	sessions, err := uc.reader.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	cube := Build(sessions, uc.binner)
	cubeExportDuration.Observe(time.Since(start).Seconds())
	uc.log.Debugw("Cube built",
		"sessions", len(cube.Rows),
		"dimensions", len(cube.Space.Dimensions),
		"took", time.Since(start),
	)
	return cube, nil
}

// Build assembles the space and one row per session.
func Build(sessions []sessdomain.Session, binner ports.BinnerPort) *domain.Cube {
	cube := &domain.Cube{Sessions: make([]domain.SessionFeatures, len(sessions))}

	// feature -> value -> number of sessions with that value
	stats := make(map[string]map[uint64]uint64)
	observe := func(feature string, v uint64) {
		dist, ok := stats[feature]
		if !ok {
			dist = make(map[uint64]uint64)
			stats[feature] = dist
		}
		dist[v]++
	}

	for i, s := range sessions {
		counts := make(map[string]uint64, len(s.Counters)+1)
		counts[domain.TimeDimensionName] = s.NumberOfSeconds
		observe(domain.TimeDimensionName, s.NumberOfSeconds)
		for f, c := range s.Counters {
			// the length cell is never taken from a counter
			if c == 0 || f == domain.TimeDimensionName {
				continue
			}
			counts[f] = c
			observe(f, c)
		}
		cube.Sessions[i] = domain.SessionFeatures{ID: s.SID, FeatureCount: counts}
	}

	space := &cube.Space
	space.Dimensions = append(space.Dimensions,
		domain.TimeDimension(),
		domain.Dimension{Name: domain.DeviceDimensionName, Bins: []domain.Bin{domain.NotSetBin()}},
	)

	for _, f := range sortedKeys(stats) {
		dimName, binName := domain.Classify(f)
		if dimName == "" {
			continue
		}
		dim := space.DimensionByName(dimName)
		if binName == "" {
			if dim != nil {
				// a counter named like a reserved dimension
				continue
			}
			bins := append([]domain.Bin{domain.NotSetBin()}, binner.BuildBins(stats[f])...)
			space.Dimensions = append(space.Dimensions, domain.Dimension{Name: dimName, Bins: bins})
			continue
		}
		if dim == nil {
			space.Dimensions = append(space.Dimensions, domain.Dimension{Name: dimName})
			dim = &space.Dimensions[len(space.Dimensions)-1]
		}
		dim.AddBinIfNotExists(domain.TextBin(binName, f))
	}

	index := make(map[string]int, len(space.Dimensions))
	for i, d := range space.Dimensions {
		index[d.Name] = i
	}

	cube.Rows = make([]domain.Row, len(cube.Sessions))
	for i, s := range cube.Sessions {
		cells := make([]string, len(space.Dimensions))
		for j := range cells {
			cells[j] = domain.NotSetBinName
		}
		for _, f := range sortedKeys(s.FeatureCount) {
			dimName, binName := domain.Classify(f)
			if f == domain.TimeDimensionName {
				dimName = f
			}
			j, ok := index[dimName]
			if !ok {
				continue
			}
			if binName == "" {
				binName = space.Dimensions[j].BinNameByValue(s.FeatureCount[f])
			}
			if binName != "" {
				cells[j] = binName
			}
		}
		cube.Rows[i] = domain.Row{SessionID: s.ID, Cells: cells}
	}
	return cube
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
