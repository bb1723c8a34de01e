package models

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role values carried on users and JWT claims
const (
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
	RoleGuest = "GUEST"
)

// User account statuses
const (
	UserStatusActive   = "active"
	UserStatusBanned   = "banned"
	UserStatusInactive = "inactive"
)

// Guesthouse listing statuses
const (
	GuesthouseActive   = "ACTIVE"
	GuesthousePending  = "PENDING"
	GuesthouseRejected = "REJECTED"
)

// Reservation lifecycle statuses
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a marketplace account (guest, host or admin)
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FullName     string    `json:"fullName"`
	PhoneNumber  string    `json:"phonenumber,omitempty"`
	Birthday     string    `json:"birthday,omitempty"`
	PictureURL   string    `json:"picture_url,omitempty"`
	Role         string    `json:"role" gorm:"not null;default:GUEST"`
	Status       string    `json:"status" gorm:"not null;default:active"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Guesthouse represents a rental listing owned by a host
type Guesthouse struct {
	BaseModel
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	City        string    `json:"city" gorm:"not null;index"`
	Price       string    `json:"price" gorm:"not null"`
	Latitude    float64   `json:"latitude,omitempty"`
	Longitude   float64   `json:"longitude,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	OwnerID     string    `json:"ownerId" gorm:"not null;index"`
	Status      string    `json:"status" gorm:"not null;default:PENDING"`
	Amenities   string    `json:"-" gorm:"type:text"` // JSON-encoded string list
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// AmenityList decodes the stored amenities column
func (g *Guesthouse) AmenityList() []string {
	if g.Amenities == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(g.Amenities), &list); err != nil {
		return nil
	}
	return list
}

// SetAmenities encodes a string list into the amenities column
func (g *Guesthouse) SetAmenities(list []string) error {
	if len(list) == 0 {
		g.Amenities = ""
		return nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	g.Amenities = string(data)
	return nil
}

// Reservation represents a booking of a guesthouse by a guest
type Reservation struct {
	BaseModel
	GuesthouseID    string    `json:"guesthouseId" gorm:"not null;index"`
	GuestID         string    `json:"guestId" gorm:"not null;index"`
	OwnerID         string    `json:"ownerId" gorm:"not null;index"`
	CheckInDate     string    `json:"checkInDate" gorm:"not null"`  // YYYY-MM-DD
	CheckOutDate    string    `json:"checkOutDate" gorm:"not null"` // YYYY-MM-DD
	NumberOfGuests  int       `json:"numberOfGuests" gorm:"not null;default:1"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status" gorm:"not null;default:PENDING"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Guesthouse *Guesthouse `json:"guesthouse,omitempty" gorm:"foreignKey:GuesthouseID"`
	Guest      *User       `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Owner      *User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// Message represents a direct message between two users
type Message struct {
	BaseModel
	SenderID   string `json:"senderId" gorm:"not null;index"`
	ReceiverID string `json:"receiverId" gorm:"not null;index"`
	Content    string `json:"content" gorm:"type:text;not null"`
	IsRead     bool   `json:"isRead" gorm:"not null;default:false"`

	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}

// Favorite marks a guesthouse as favorited by a user
type Favorite struct {
	BaseModel
	UserID       string `json:"userId" gorm:"not null;uniqueIndex:idx_fav_user_gh"`
	GuesthouseID string `json:"guesthouseId" gorm:"not null;uniqueIndex:idx_fav_user_gh"`

	Guesthouse *Guesthouse `json:"guesthouse,omitempty" gorm:"foreignKey:GuesthouseID"`
}

// PasswordReset holds a pending password recovery code
type PasswordReset struct {
	BaseModel
	Email     string     `json:"email" gorm:"not null;index"`
	Code      string     `json:"-" gorm:"not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{}, &Guesthouse{}, &Reservation{},
		&Message{}, &Favorite{}, &PasswordReset{},
	)
}
