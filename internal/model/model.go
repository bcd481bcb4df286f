package model

type Activity struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Description     string `db:"description" json:"description"`
	Schedule        string `db:"schedule" json:"schedule"`
	MaxParticipants int    `db:"max_participants" json:"max_participants"`
}

type Participant struct {
	ID         int64  `db:"id" json:"id"`
	Email      string `db:"email" json:"email"`
	ActivityID int64  `db:"activity_id" json:"activity_id"`
}
