package model

import "time"

// StatusCheck records a client calling in
type StatusCheck struct {
	ID         string    `json:"id" bson:"id"`
	ClientName string    `json:"client_name" bson:"client_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// StatusCheckCreate is the body of POST /api/status
type StatusCheckCreate struct {
	ClientName string `json:"client_name"`
}
