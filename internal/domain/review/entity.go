package review

import "time"

type Review struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	BookingID  int64     `gorm:"column:booking_id;uniqueIndex:idx_reviews_booking" json:"booking_id"`
	CustomerID int64     `gorm:"column:customer_id" json:"customer_id"`
	ArtistID   int64     `gorm:"column:artist_id;index:idx_reviews_artist" json:"artist_id"`
	Rating     int       `gorm:"column:rating" json:"rating"`
	Comment    string    `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
