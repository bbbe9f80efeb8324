package tables

import (
	"storefront_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Id            uuid.UUID  `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Username      string     `json:"username" bun:"username,unique,notnull"`
	Email         string     `json:"email" bun:"email,unique,notnull"`
	PasswordHash  string     `json:"-" bun:"password_hash,notnull"`
	Role          string     `json:"role" bun:"role,notnull,default:'user'"`
	LastLogin     time.Time  `json:"last_login" bun:"last_login,default:now()"`
	EmailVerified bool       `json:"email_verified" bun:"email_verified,notnull"`
	Banned        bool       `json:"banned" bun:"banned,notnull"`
	BannedReason  string     `json:"banned_reason,omitempty" bun:"banned_reason"`
	BannedAt      *time.Time `json:"banned_at,omitempty" bun:"banned_at,nullzero"`
	CreatedAt     time.Time  `json:"created_at" bun:"created_at,notnull,default:now()"`
}

func (u *User) IsAdmin() bool {
	return u.Role == structs.RoleAdmin
}

type EmailVerification struct {
	bun.BaseModel `bun:"table:email_verifications,alias:ev"`

	Id        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserId    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Token     string    `bun:"token,notnull,unique"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id"`
}
