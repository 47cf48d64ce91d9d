package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// and repositories define separate row types with appropriate JSON
// tags.  A user is either a producer (uploads beats) or an artist
// (purchases beats and runs projects); the type is fixed at
// registration and never changes afterwards.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Name         – display name shown in the catalog and on receipts.
//	UserType     – role of the account: "producer" or "artist".
//	Bio          – optional free-text biography (nullable).
//	AvatarURL    – optional avatar reference (nullable).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	Name         string     // users.name
	UserType     string     // users.user_type ("producer" | "artist")
	Bio          *string    // users.bio (nullable)
	AvatarURL    *string    // users.avatar_url (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// User type enumeration values.  These are the literal strings stored in
// users.user_type and carried in the JWT "role" claim.
const (
	UserTypeProducer = "producer"
	UserTypeArtist   = "artist"
)

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA‑256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
