package domain

import "time"

type Customer struct {
	ID          int32     `json:"id"`
	FullName    string    `json:"full_name"`
	IDCard      string    `json:"id_card"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Email       string    `json:"email,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}
