package models

import "time"

const DefaultImageFile = "default.jpg"

type User struct {
	ID        int
	Username  string
	Email     string
	Password  string
	ImageFile string
	CreatedAt time.Time
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageFile string `json:"image_file"`
}

func (u *User) Response() UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, ImageFile: u.ImageFile}
}
