package database

import (
	"database/sql"
	"time"

	"meetup-bot/state"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusConfirmed = "confirmed"
	DonationStatusCanceled  = "canceled"
)

type Event struct {
	ID          uint `gorm:"primaryKey;autoIncrement"`
	Title       string
	Description string
	Date        time.Time
	IsActive    bool

	TimeSlots    []TimeSlot
	Speakers     []Speaker     `gorm:"many2many:event_speakers;"`
	Participants []Participant `gorm:"many2many:event_participants;"`
}

type Speaker struct {
	ID               uint `gorm:"primaryKey;autoIncrement"`
	Name             string
	TelegramUsername sql.NullString `gorm:"uniqueIndex"`
	TelegramID       sql.NullInt64  `gorm:"uniqueIndex"`
	Bio              string

	Events []Event `gorm:"many2many:event_speakers;"`
}

type TimeSlot struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	EventID   uint
	Event     Event
	SpeakerID uint
	Speaker   Speaker
	StartTime time.Time `gorm:"index:idx_time_slots_range"`
	EndTime   time.Time `gorm:"index:idx_time_slots_range"`
	Title     string
}

type Participant struct {
	ID               uint  `gorm:"primaryKey;autoIncrement"`
	TelegramID       int64 `gorm:"uniqueIndex"`
	TelegramUsername string
	Name             string
	Bio              string
	IsSpeaker        bool
	IsEventManager   bool
	IsSubscribed     bool

	Events []Event `gorm:"many2many:event_participants;"`
}

type Question struct {
	ID            uint `gorm:"primaryKey;autoIncrement"`
	EventID       uint
	Event         Event
	SpeakerID     uint
	Speaker       Speaker
	ParticipantID uint
	Participant   Participant
	Text          string
	Timestamp     time.Time `gorm:"autoCreateTime"`
	IsAnswered    bool
}

type Donation struct {
	ID            uint `gorm:"primaryKey;autoIncrement"`
	EventID       uint
	Event         Event
	ParticipantID uint
	Participant   Participant
	Amount        int64
	PaymentID     string    `gorm:"index"`
	Status        string    `gorm:"default:pending"`
	Timestamp     time.Time `gorm:"autoCreateTime"`
}

type ConnectionRequest struct {
	ID                  uint `gorm:"primaryKey;autoIncrement"`
	ParticipantID       uint `gorm:"uniqueIndex:idx_connection_request_pair"`
	Participant         Participant
	TargetParticipantID uint `gorm:"uniqueIndex:idx_connection_request_pair"`
	TargetParticipant   Participant
	IsAccepted          bool
	Timestamp           time.Time `gorm:"autoCreateTime"`
}

func AutoMigrate() error {
	db := state.State.Database
	return db.AutoMigrate(
		&Event{},
		&Speaker{},
		&TimeSlot{},
		&Participant{},
		&Question{},
		&Donation{},
		&ConnectionRequest{},
	)
}
