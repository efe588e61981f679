package database

import (
	"errors"

	"meetup-bot/state"

	"gorm.io/gorm"
)

var (
	ErrNoActiveEvent    = errors.New("no active event")
	ErrSpeakerNotFound  = errors.New("speaker not found")
	ErrSpeakerNotActive = errors.New("speaker is not bound to an active event")
	ErrDonationNotFound = errors.New("donation not found")
	ErrQuestionNotFound = errors.New("question not found")
)

func EventGetActive() (Event, error) {
	db := state.State.Database

	var event Event
	res := db.Where("is_active = ?", true).Order("id").Find(&event)
	if res.Error != nil {
		return event, res.Error
	}
	if event.ID == 0 {
		return event, ErrNoActiveEvent
	}
	return event, nil
}

// ParticipantGetOrCreate is the single identify-or-register entry point:
// every bot contact goes through it, keyed by the Telegram id.
func ParticipantGetOrCreate(telegramID int64, username, name string) (Participant, error) {
	return participantGetOrCreate(state.State.Database, telegramID, username, name)
}

func participantGetOrCreate(db *gorm.DB, telegramID int64, username, name string) (Participant, error) {
	var participant Participant
	res := db.Where("telegram_id = ?", telegramID).Find(&participant)
	if res.Error != nil {
		return participant, res.Error
	}

	if participant.ID != 0 {
		return participant, nil
	}

	if name == "" {
		name = "Аноним"
	}
	participant = Participant{
		TelegramID:       telegramID,
		TelegramUsername: username,
		Name:             name,
	}
	res = db.Create(&participant)
	return participant, res.Error
}

func ParticipantGetByID(participantID uint) (Participant, error) {
	db := state.State.Database

	var participant Participant
	res := db.Where("id = ?", participantID).Find(&participant)
	if res.Error != nil {
		return participant, res.Error
	}
	if participant.ID == 0 {
		return participant, gorm.ErrRecordNotFound
	}
	return participant, nil
}

func SpeakerGetByUsername(username string) (Speaker, error) {
	db := state.State.Database

	var speaker Speaker
	res := db.Where("telegram_username = ?", username).Find(&speaker)
	if res.Error != nil {
		return speaker, res.Error
	}
	if speaker.ID == 0 {
		return speaker, ErrSpeakerNotFound
	}
	return speaker, nil
}

func SpeakerGetAll() ([]Speaker, error) {
	db := state.State.Database

	var speakers []Speaker
	res := db.Order("name").Find(&speakers)
	return speakers, res.Error
}

// QuestionAdd re-validates the speaker binding and creates the question in
// one transaction, so a speaker unlinked mid-flow never gets a question row.
func QuestionAdd(speakerUsername string, participantTelegramID int64, participantName, text string) (Question, Speaker, error) {
	db := state.State.Database

	var (
		question Question
		speaker  Speaker
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("telegram_username = ?", speakerUsername).Find(&speaker)
		if res.Error != nil {
			return res.Error
		}
		if speaker.ID == 0 {
			return ErrSpeakerNotFound
		}

		var event Event
		res = tx.Joins("JOIN event_speakers ON event_speakers.event_id = events.id").
			Where("event_speakers.speaker_id = ? AND events.is_active = ?", speaker.ID, true).
			Order("events.id").
			Find(&event)
		if res.Error != nil {
			return res.Error
		}
		if event.ID == 0 {
			return ErrSpeakerNotActive
		}

		participant, err := participantGetOrCreate(tx, participantTelegramID, "", participantName)
		if err != nil {
			return err
		}

		question = Question{
			EventID:       event.ID,
			SpeakerID:     speaker.ID,
			ParticipantID: participant.ID,
			Text:          text,
		}
		return tx.Create(&question).Error
	})

	return question, speaker, err
}

func QuestionGet(questionID uint) (Question, error) {
	db := state.State.Database

	var question Question
	res := db.Preload("Speaker").Preload("Participant").
		Where("id = ?", questionID).Find(&question)
	if res.Error != nil {
		return question, res.Error
	}
	if question.ID == 0 {
		return question, ErrQuestionNotFound
	}
	return question, nil
}

func QuestionMarkAnswered(questionID uint) error {
	db := state.State.Database

	var question Question
	res := db.Where("id = ?", questionID).Find(&question)
	if res.Error != nil {
		return res.Error
	}
	if question.ID == 0 {
		return ErrQuestionNotFound
	}

	question.IsAnswered = true
	return db.Save(&question).Error
}

// DonationAddPending records the donation before the provider is called, so
// a provider-success-but-store-failure can never leave an untracked charge.
func DonationAddPending(eventID, participantID uint, amount int64) (Donation, error) {
	db := state.State.Database

	donation := Donation{
		EventID:       eventID,
		ParticipantID: participantID,
		Amount:        amount,
		Status:        DonationStatusPending,
	}
	res := db.Create(&donation)
	return donation, res.Error
}

func DonationAttachPayment(donationID uint, paymentID string) error {
	db := state.State.Database

	var donation Donation
	res := db.Where("id = ?", donationID).Find(&donation)
	if res.Error != nil {
		return res.Error
	}
	if donation.ID == 0 {
		return ErrDonationNotFound
	}

	donation.PaymentID = paymentID
	return db.Save(&donation).Error
}

func DonationCancel(donationID uint) error {
	db := state.State.Database

	var donation Donation
	res := db.Where("id = ?", donationID).Find(&donation)
	if res.Error != nil {
		return res.Error
	}
	if donation.ID == 0 {
		return ErrDonationNotFound
	}

	donation.Status = DonationStatusCanceled
	return db.Save(&donation).Error
}

// DonationSetStatusByPayment is driven by the provider webhook and is the
// only path that marks a donation confirmed.
func DonationSetStatusByPayment(paymentID, status string) (Donation, error) {
	db := state.State.Database

	var donation Donation
	res := db.Preload("Participant").Preload("Event").
		Where("payment_id = ?", paymentID).Find(&donation)
	if res.Error != nil {
		return donation, res.Error
	}
	if donation.ID == 0 {
		return donation, ErrDonationNotFound
	}

	donation.Status = status
	res = db.Save(&donation)
	return donation, res.Error
}

func ConnectionRequestAdd(participantID, targetParticipantID uint) (ConnectionRequest, bool, error) {
	db := state.State.Database

	var request ConnectionRequest
	res := db.Where("participant_id = ? AND target_participant_id = ?",
		participantID, targetParticipantID).Find(&request)
	if res.Error != nil {
		return request, false, res.Error
	}
	if request.ID != 0 {
		return request, false, nil
	}

	request = ConnectionRequest{
		ParticipantID:       participantID,
		TargetParticipantID: targetParticipantID,
	}
	res = db.Create(&request)
	return request, true, res.Error
}

func ConnectionRequestAccept(requestID uint) (ConnectionRequest, error) {
	db := state.State.Database

	var request ConnectionRequest
	res := db.Preload("Participant").Preload("TargetParticipant").
		Where("id = ?", requestID).Find(&request)
	if res.Error != nil {
		return request, res.Error
	}
	if request.ID == 0 {
		return request, gorm.ErrRecordNotFound
	}

	request.IsAccepted = true
	res = db.Save(&request)
	return request, res.Error
}
