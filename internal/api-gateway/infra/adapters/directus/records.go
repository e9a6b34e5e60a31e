package directus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
)

// Directus returns loosely typed JSON: numeric columns may arrive as strings
// (decimal fields always do), ids may be integers or UUIDs, optional fields
// may be null. These types coerce at the boundary and reject anything that
// cannot be made sense of.

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		*s = looseString(b)
	default:
		return fmt.Errorf("expected string or number, got %s", b)
	}
	return nil
}

// looseFloat accepts a JSON number, a numeric string or null (zero).
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	v, err := parseNumber(b)
	if err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}

// looseCount is a non-negative whole quantity. Negative values clamp to zero.
type looseCount int

func (c *looseCount) UnmarshalJSON(b []byte) error {
	v, err := parseNumber(b)
	if err != nil {
		return err
	}
	if v != math.Trunc(v) {
		return fmt.Errorf("expected a whole number, got %v", v)
	}
	if v < 0 {
		v = 0
	}
	if v > math.MaxInt32 {
		return fmt.Errorf("quantity %v out of range", v)
	}
	*c = looseCount(v)
	return nil
}

func parseNumber(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("expected a number, got %q", s)
		}
		return v, nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, fmt.Errorf("expected a number, got %s", b)
	}
	return v, nil
}

var productFields = []string{
	"id", "name", "slug", "price", "description",
	"stock_quantity", "image_url", "created_at", "updated_at",
}

var stockFields = []string{"id", "name", "stock_quantity"}

var blogFields = []string{"id", "title", "slug", "content", "author", "published_date"}

type productRecord struct {
	ID            looseString `json:"id"`
	Name          looseString `json:"name"`
	Slug          looseString `json:"slug"`
	Price         looseFloat  `json:"price"`
	Description   looseString `json:"description"`
	StockQuantity looseCount  `json:"stock_quantity"`
	ImageURL      looseString `json:"image_url"`
	CreatedAt     looseString `json:"created_at"`
	UpdatedAt     looseString `json:"updated_at"`
}

func (r productRecord) toEntity() entity.Product {
	return entity.Product{
		ID:            string(r.ID),
		Name:          string(r.Name),
		Slug:          string(r.Slug),
		Price:         float64(r.Price),
		Description:   string(r.Description),
		StockQuantity: int(r.StockQuantity),
		ImageURL:      string(r.ImageURL),
		CreatedAt:     string(r.CreatedAt),
		UpdatedAt:     string(r.UpdatedAt),
	}
}

func (r productRecord) toStock() entity.StockRecord {
	return entity.StockRecord{
		ID:             string(r.ID),
		Name:           string(r.Name),
		AvailableStock: int(r.StockQuantity),
	}
}

type blogRecord struct {
	ID            looseString `json:"id"`
	Title         looseString `json:"title"`
	Slug          looseString `json:"slug"`
	Content       looseString `json:"content"`
	Author        looseString `json:"author"`
	PublishedDate looseString `json:"published_date"`
}

func (r blogRecord) toEntity() entity.BlogPost {
	return entity.BlogPost{
		ID:            string(r.ID),
		Title:         string(r.Title),
		Slug:          string(r.Slug),
		Content:       string(r.Content),
		Author:        string(r.Author),
		PublishedDate: string(r.PublishedDate),
	}
}

type userRecord struct {
	ID        looseString `json:"id"`
	Email     looseString `json:"email"`
	FirstName looseString `json:"first_name"`
	LastName  looseString `json:"last_name"`
	Role      looseString `json:"role"`
	Status    looseString `json:"status"`
	CreatedAt looseString `json:"created_at"`
	UpdatedAt looseString `json:"updated_at"`
}

func (r userRecord) toEntity() entity.User {
	u := entity.User{
		ID:        string(r.ID),
		Email:     string(r.Email),
		FirstName: string(r.FirstName),
		LastName:  string(r.LastName),
		Role:      string(r.Role),
		Status:    string(r.Status),
		CreatedAt: string(r.CreatedAt),
		UpdatedAt: string(r.UpdatedAt),
	}
	if u.Role == "" {
		u.Role = "user"
	}
	if u.Status == "" {
		u.Status = "active"
	}
	return u
}

type loginRecord struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Expires      looseFloat `json:"expires"`
}
