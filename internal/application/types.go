package application

import (
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
)

type Config struct {
	// IdleTimeout bounds session inactivity; a validate at exactly the
	// threshold still passes, one instant past it does not.
	IdleTimeout time.Duration
	// AbsoluteLifetime caps total session age regardless of activity.
	// Zero disables the cap (sliding expiry only).
	AbsoluteLifetime time.Duration
	// StorageTimeout bounds every identity- and patient-store call.
	StorageTimeout time.Duration
	// PageSize is the fixed patient listing page size.
	PageSize int
}

type AuthenticateRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RemoteAddr string `json:"-"`
}

type AuthenticateResponse struct {
	Token    string          `json:"token"`
	Identity domain.Identity `json:"user"`
}

type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RemoteAddr string `json:"-"`
}

type ListPatientsRequest struct {
	Query  string
	Stroke *int
	Gender string
	Page   int
}

// DashboardResponse pairs collection stats with the recent-records panel.
type DashboardResponse struct {
	Stats  domain.DashboardStats `json:"stats"`
	Recent []domain.Patient      `json:"recent"`
}

// AnalyticsResponse wraps the chart aggregation feeds.
type AnalyticsResponse struct {
	Report domain.AnalyticsReport `json:"report"`
}
