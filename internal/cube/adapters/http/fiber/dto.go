package fiber

import (
	"session-analytics-service/internal/cube/core/domain"
	"session-analytics-service/internal/cube/core/usecase"
)

type CubeResponse struct {
	Space    domain.Space             `json:"space"`
	Sessions []domain.SessionFeatures `json:"sessions"`
}

type InsightTagResponse struct {
	Name string `json:"name"`
}

type InsightFeatureResponse struct {
	Tag string `json:"tag"`
	Yes string `json:"yes"`
	No  string `json:"no,omitempty"`
}

type InsightSessionResponse struct {
	Key     string   `json:"key"`
	Feature []string `json:"feature"`
}

type RealmResponse struct {
	Description string                            `json:"description"`
	Tag         map[string]InsightTagResponse     `json:"tag"`
	Feature     map[string]InsightFeatureResponse `json:"feature"`
	Session     []InsightSessionResponse          `json:"session"`
}

type InsightsResponse struct {
	Realm []RealmResponse `json:"realm"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_format"`
	Message string `json:"message,omitempty" example:"invalid export format"`
}

func toInsightsResponse(in *usecase.Insights) InsightsResponse {
	resp := InsightsResponse{Realm: make([]RealmResponse, 0, len(in.Realms))}
	for _, r := range in.Realms {
		out := RealmResponse{
			Description: r.Description,
			Tag:         make(map[string]InsightTagResponse, len(r.Tags)),
			Feature:     make(map[string]InsightFeatureResponse, len(r.Features)),
			Session:     make([]InsightSessionResponse, 0, len(r.Sessions)),
		}
		for k, t := range r.Tags {
			out.Tag[k] = InsightTagResponse{Name: t.Name}
		}
		for k, f := range r.Features {
			out.Feature[k] = InsightFeatureResponse{Tag: f.Tag, Yes: f.Yes, No: f.No}
		}
		for _, s := range r.Sessions {
			out.Session = append(out.Session, InsightSessionResponse{Key: s.Key, Feature: s.Features})
		}
		resp.Realm = append(resp.Realm, out)
	}
	return resp
}
