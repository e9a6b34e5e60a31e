package httpx

import "github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	FirstName *string `json:"first_name" validate:"omitnil,min=1"`
	LastName  *string `json:"last_name" validate:"omitnil,min=1"`
}

type CheckoutRequest struct {
	Items []CheckoutItemDTO `json:"items" validate:"required,min=1,dive"`
}

type CheckoutItemDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=2147483647"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	Expires      int64        `json:"expires"`
	User         *entity.User `json:"user"`
}

// CheckoutResponse is the verdict plus the success flag clients already
// read from the original payload.
type CheckoutResponse struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message"`
	StockCheck []entity.StockCheckResult `json:"stockCheck"`
	TotalItems int                       `json:"totalItems"`
	CanProceed bool                      `json:"canProceed"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Envelope wraps every /api/v1 response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapItems(items []CheckoutItemDTO) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, it := range items {
		out[i] = entity.LineItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

func mapVerdict(v *entity.CheckoutVerdict) CheckoutResponse {
	stockCheck := v.StockCheck
	if stockCheck == nil {
		stockCheck = []entity.StockCheckResult{}
	}
	return CheckoutResponse{
		Success:    v.CanProceed,
		Message:    v.Message,
		StockCheck: stockCheck,
		TotalItems: v.TotalItems,
		CanProceed: v.CanProceed,
	}
}

func mapAuth(issued *entity.IssuedToken, refreshToken string, user *entity.User) AuthResponse {
	return AuthResponse{
		AccessToken:  issued.Token,
		RefreshToken: refreshToken,
		Expires:      issued.ExpiresAt,
		User:         user,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
