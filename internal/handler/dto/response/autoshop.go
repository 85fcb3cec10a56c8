package response

import (
	"time"

	"autoshop/internal/domain/autoshop"
	"autoshop/internal/domain/recommendation"
	"autoshop/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RecommendationResponse struct {
	ID             uuid.UUID `json:"id"`
	SessionID      uuid.UUID `json:"sessionId"`
	ProductID      string    `json:"productId"`
	Title          string    `json:"title"`
	Price          int64     `json:"price"`
	ImageURL       string    `json:"imageUrl"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	ReservedAmount int64     `json:"reservedAmount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type SettingsResponse struct {
	MaxTotalCoins    int64    `json:"maxTotalCoins"`
	MinItemPrice     int64    `json:"minItemPrice"`
	MaxItemPrice     int64    `json:"maxItemPrice"`
	DurationValue    int      `json:"durationValue"`
	DurationUnit     string   `json:"durationUnit"`
	Categories       []string `json:"categories"`
	UseRandomMode    bool     `json:"useRandomMode"`
	ItemsPerInterval int      `json:"itemsPerInterval"`
	Sphere           string   `json:"sphere"`
	MinTrustScore    float64  `json:"minTrustScore"`
	AvoidTags        []string `json:"avoidTags"`
}

type SessionResponse struct {
	ID        uuid.UUID        `json:"id"`
	State     string           `json:"state"`
	StartedAt time.Time        `json:"startedAt"`
	EndsAt    time.Time        `json:"endsAt"`
	Settings  SettingsResponse `json:"settings"`
}

type StartResponse struct {
	ActionResponse
	Session       SessionResponse `json:"session"`
	AlreadyActive bool            `json:"alreadyActive"`
	FirstTick     string          `json:"firstTick,omitempty"`
}

type StopResponse struct {
	ActionResponse
	Refunded      int   `json:"refunded"`
	RefundedCoins int64 `json:"refundedCoins"`
	Settled       int   `json:"settled"`
	Finalized     bool  `json:"finalized"`
}

type ClearResponse struct {
	ActionResponse
	Rejected      int   `json:"rejected"`
	RefundedCoins int64 `json:"refundedCoins"`
}

type ItemResponse struct {
	ActionResponse
	Item    RecommendationResponse `json:"item"`
	Changed bool                   `json:"changed"`
}

type ListResponse struct {
	Success bool                     `json:"success"`
	Items   []RecommendationResponse `json:"items"`
	Count   int                      `json:"count"`
}

type StatusResponse struct {
	Success          bool              `json:"success"`
	Active           bool              `json:"active"`
	State            string            `json:"state,omitempty"`
	SessionID        *uuid.UUID        `json:"sessionId,omitempty"`
	StartedAt        *time.Time        `json:"startedAt,omitempty"`
	EndsAt           *time.Time        `json:"endsAt,omitempty"`
	RemainingSeconds int64             `json:"remainingSeconds"`
	Settings         *SettingsResponse `json:"settings,omitempty"`
	PendingCount     int               `json:"pendingCount"`
	SessionSpent     int64             `json:"sessionSpent"`
	Balance          int64             `json:"balance"`
}

type BalanceResponse struct {
	Success       bool  `json:"success"`
	Available     int64 `json:"available"`
	Reserved      int64 `json:"reserved"`
	Spent         int64 `json:"spent"`
	TotalCredited int64 `json:"totalCredited"`
}

func FromRecommendationViews(views []*queries.RecommendationView) (*ListResponse, error) {
	items := make([]RecommendationResponse, 0, len(views))
	for _, v := range views {
		var item RecommendationResponse
		if err := copier.Copy(&item, v); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &ListResponse{Success: true, Items: items, Count: len(items)}, nil
}

func FromStatusView(v *queries.StatusView) (*StatusResponse, error) {
	resp := &StatusResponse{Success: true}
	if err := copier.CopyWithOption(resp, v, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromBalanceView(v *queries.BalanceView) (*BalanceResponse, error) {
	resp := &BalanceResponse{Success: true}
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromRecommendation(r *recommendation.Recommendation) RecommendationResponse {
	p := r.Product()
	return RecommendationResponse{
		ID:             r.ID(),
		SessionID:      r.SessionID(),
		ProductID:      p.ProductID,
		Title:          p.Title,
		Price:          p.Price,
		ImageURL:       p.ImageURL,
		Category:       p.Category,
		Status:         r.Status().String(),
		ReservedAmount: r.ReservedAmount(),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}

func FromSession(s *autoshop.Session) SessionResponse {
	settings := s.Settings()
	return SessionResponse{
		ID:        s.ID(),
		State:     s.State().String(),
		StartedAt: s.StartedAt(),
		EndsAt:    s.EndsAt(),
		Settings: SettingsResponse{
			MaxTotalCoins:    settings.MaxTotalCoins,
			MinItemPrice:     settings.MinItemPrice,
			MaxItemPrice:     settings.MaxItemPrice,
			DurationValue:    settings.Duration.Value,
			DurationUnit:     string(settings.Duration.Unit),
			Categories:       settings.Categories,
			UseRandomMode:    settings.UseRandomMode,
			ItemsPerInterval: settings.ItemsPerInterval,
			Sphere:           settings.Sphere.String(),
			MinTrustScore:    settings.MinTrustScore,
			AvoidTags:        settings.AvoidTags,
		},
	}
}
