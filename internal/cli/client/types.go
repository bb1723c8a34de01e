package client

// User is the identity record returned by the marketplace API
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phonenumber,omitempty"`
	Birthday    string `json:"birthday,omitempty"`
	PictureURL  string `json:"picture_url,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the account creation request body
type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phonenumber,omitempty"`
	Birthday    string `json:"birthday,omitempty"`
}

// Guesthouse represents a rental listing
type Guesthouse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	Price       string   `json:"price"`
	Latitude    float64  `json:"latitude,omitempty"`
	Longitude   float64  `json:"longitude,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	OwnerID     string   `json:"ownerId"`
	Status      string   `json:"status,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// GuesthouseRequest represents a listing create/update body
type GuesthouseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	City        string   `json:"city"`
	Price       string   `json:"price"`
	Latitude    float64  `json:"latitude,omitempty"`
	Longitude   float64  `json:"longitude,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

// Reservation represents a booking
type Reservation struct {
	ID              string      `json:"id"`
	GuesthouseID    string      `json:"guesthouseId"`
	GuestID         string      `json:"guestId"`
	OwnerID         string      `json:"ownerId"`
	CheckInDate     string      `json:"checkInDate"`
	CheckOutDate    string      `json:"checkOutDate"`
	NumberOfGuests  int         `json:"numberOfGuests"`
	TotalPrice      float64     `json:"totalPrice"`
	Status          string      `json:"status"`
	SpecialRequests string      `json:"specialRequests,omitempty"`
	Reason          string      `json:"reason,omitempty"`
	Guesthouse      *Guesthouse `json:"guesthouse,omitempty"`
	Guest           *User       `json:"guest,omitempty"`
}

// ReservationRequest represents a booking request
type ReservationRequest struct {
	GuesthouseID    string `json:"guesthouseId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	NumberOfGuests  int    `json:"numberOfGuests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Message represents a direct message
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	IsRead     bool   `json:"isRead"`
	CreatedAt  string `json:"created_at,omitempty"`
	Sender     *User  `json:"sender,omitempty"`
	Receiver   *User  `json:"receiver,omitempty"`
}

// MessageRequest represents a message send body
type MessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// Conversation summarizes the message history with one other user
type Conversation struct {
	ID              string `json:"id"`
	OtherUserID     string `json:"otherUserId"`
	OtherUserName   string `json:"otherUserName"`
	LastMessage     string `json:"lastMessage"`
	LastMessageTime string `json:"lastMessageTime"`
	UnreadCount     int64  `json:"unreadCount"`
}

// UpdateUserRequest represents an admin edit of an account; empty fields
// are left unchanged
type UpdateUserRequest struct {
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
}

// AdminStats aggregates marketplace counters
type AdminStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalGuesthouses  int64   `json:"totalGuesthouses"`
	TotalReservations int64   `json:"totalReservations"`
	TotalRevenue      float64 `json:"totalRevenue"`
}
