package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-scout/internal/models"

	"github.com/go-resty/resty/v2"
)

// ExternalScorer delegates scoring to a remote service. Any failure here is
// recoverable: the pipeline falls back to the heuristic scorer for that
// listing instead of leaving it stuck unevaluated.
type ExternalScorer struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

type scoreRequest struct {
	Title      string `json:"title"`
	Price      string `json:"price"`
	Location   string `json:"location"`
	SellerName string `json:"seller_name"`
}

type scoreResponse struct {
	FlipScore      *int   `json:"flip_score"`
	WeirdnessScore *int   `json:"weirdness_score"`
	ScamLikelihood *int   `json:"scam_likelihood"`
	Notes          string `json:"notes"`
}

func NewExternalScorer(baseURL, apiKey string) *ExternalScorer {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &ExternalScorer{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// Score sends the listing's fields to the remote scorer and validates the
// response shape. The returned scores are clamped to [1,10] like the
// heuristic's.
func (e *ExternalScorer) Score(ctx context.Context, listing models.Listing) (models.Scores, error) {
	req := scoreRequest{
		Title:      listing.Title,
		Price:      listing.Price,
		Location:   listing.Location,
		SellerName: listing.SellerName,
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", e.apiKey).
		SetBody(req).
		Post(e.baseURL + "/v1/score")
	if err != nil {
		return models.Scores{}, fmt.Errorf("scorer request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return models.Scores{}, fmt.Errorf("scorer returned HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	var result scoreResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return models.Scores{}, fmt.Errorf("parse scorer response: %w", err)
	}
	if result.FlipScore == nil || result.WeirdnessScore == nil || result.ScamLikelihood == nil {
		return models.Scores{}, fmt.Errorf("scorer response missing score fields")
	}

	return models.Scores{
		Flip:      clamp(*result.FlipScore),
		Weirdness: clamp(*result.WeirdnessScore),
		Scam:      clamp(*result.ScamLikelihood),
		Notes:     result.Notes,
		Source:    models.SourceExternal,
	}, nil
}
