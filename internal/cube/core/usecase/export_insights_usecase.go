package usecase

import (
	"context"
	"fmt"

	"session-analytics-service/internal/cube/core/domain"
	"session-analytics-service/internal/cube/core/ports"
)

const (
	realmDescription = "One and only realm."
	timeTag          = "T"
	maxCountFeature  = 10
)

type InsightTag struct {
	Name string
}

type InsightFeature struct {
	Tag string
	Yes string
	No  string
}

type InsightSession struct {
	Key      string
	Features []string
}

type Realm struct {
	Description string
	Tags        map[string]InsightTag
	Features    map[string]InsightFeature
	Sessions    []InsightSession
}

type Insights struct {
	Realms []Realm
}

type ExportInsightsUseCase struct {
	reader ports.SessionReaderPort
}

func NewExportInsightsUseCase(reader ports.SessionReaderPort) *ExportInsightsUseCase {
	return &ExportInsightsUseCase{reader: reader}
}

func lengthFeature(seconds uint64) string {
	return fmt.Sprintf(">=%ds", seconds)
}

// Execute describes every session as a set of boolean features: one per
// length mark it reaches, one per counter it has, and "counter>=c" for c up
// to min(count, 10).
func (uc *ExportInsightsUseCase) Execute(ctx context.Context) (*Insights, error) {
	sessions, err := uc.reader.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	realm := Realm{
		Description: realmDescription,
		Tags:        map[string]InsightTag{timeTag: {Name: "Session length"}},
		Features:    make(map[string]InsightFeature),
		Sessions:    make([]InsightSession, 0, len(sessions)),
	}
	for _, mark := range domain.SecondMarks {
		realm.Features[lengthFeature(mark)] = InsightFeature{
			Tag: timeTag,
			Yes: fmt.Sprintf("%d seconds or longer", mark),
			No:  fmt.Sprintf("under %d seconds", mark),
		}
	}

	for _, s := range sessions {
		out := InsightSession{Key: s.SID, Features: []string{}}
		for _, mark := range domain.SecondMarks {
			if s.NumberOfSeconds >= mark {
				out.Features = append(out.Features, lengthFeature(mark))
			}
		}
		for _, feature := range sortedKeys(s.Counters) {
			count := s.Counters[feature]
			realm.Tags[feature] = InsightTag{Name: feature}
			realm.Features[feature] = InsightFeature{Tag: feature, Yes: "'" + feature + "'"}
			out.Features = append(out.Features, feature)
			for c := uint64(2); c <= min(count, maxCountFeature); c++ {
				name := fmt.Sprintf("%s>=%d", feature, c)
				out.Features = append(out.Features, name)
				realm.Features[name] = InsightFeature{
					Tag: feature,
					Yes: fmt.Sprintf("%d or more '%s'", c, feature),
					No:  fmt.Sprintf("%d or less '%s'", c-1, feature),
				}
			}
		}
		realm.Sessions = append(realm.Sessions, out)
	}

	return &Insights{Realms: []Realm{realm}}, nil
}
