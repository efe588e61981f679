package database

import (
	"fmt"
	"strings"
	"time"

	"meetup-bot/state"
)

// TimeSlotsOnDate returns the talks of all events scheduled on the given
// calendar day, ordered by start time.
func TimeSlotsOnDate(date time.Time) ([]TimeSlot, error) {
	db := state.State.Database

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var slots []TimeSlot
	res := db.Preload("Speaker").Preload("Event").
		Joins("JOIN events ON events.id = time_slots.event_id").
		Where("events.date >= ? AND events.date < ?", dayStart, dayEnd).
		Order("time_slots.start_time").
		Find(&slots)
	return slots, res.Error
}

// TimeSlotsActiveAt returns in-progress talks of active events. Slots with
// start_time >= end_time are malformed and never reported.
func TimeSlotsActiveAt(now time.Time) ([]TimeSlot, error) {
	db := state.State.Database

	var slots []TimeSlot
	res := db.Preload("Speaker").Preload("Event").
		Joins("JOIN events ON events.id = time_slots.event_id").
		Where("events.is_active = ?", true).
		Where("time_slots.start_time <= ? AND time_slots.end_time >= ?", now, now).
		Where("time_slots.start_time < time_slots.end_time").
		Order("time_slots.start_time").
		Find(&slots)
	return slots, res.Error
}

// CurrentSpeakers lists the speakers of in-progress talks, deduplicated,
// in slot order. Used to build the ask-a-question keyboard.
func CurrentSpeakers(now time.Time) ([]Speaker, error) {
	slots, err := TimeSlotsActiveAt(now)
	if err != nil {
		return nil, err
	}

	var (
		speakers []Speaker
		seen     = make(map[uint]bool)
	)
	for _, slot := range slots {
		if seen[slot.SpeakerID] {
			continue
		}
		seen[slot.SpeakerID] = true
		speakers = append(speakers, slot.Speaker)
	}
	return speakers, nil
}

func ProgramFor(date time.Time) (string, error) {
	slots, err := TimeSlotsOnDate(date)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return "В этот день докладов нет.", nil
	}

	loc := date.Location()
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		lines = append(lines, fmt.Sprintf("%s - %s: %s (%s)",
			slot.StartTime.In(loc).Format("15:04"),
			slot.EndTime.In(loc).Format("15:04"),
			slot.Title,
			slot.Speaker.Name,
		))
	}
	return strings.Join(lines, "\n"), nil
}

// StaffIDs returns the Telegram ids of participants with staff roles, used
// for the extra menu options on /start and staff-only commands.
func StaffIDs() (map[int64]bool, error) {
	db := state.State.Database

	var participants []Participant
	res := db.Where("is_event_manager = ? OR is_speaker = ?", true, true).Find(&participants)
	if res.Error != nil {
		return nil, res.Error
	}

	ids := make(map[int64]bool, len(participants))
	for _, participant := range participants {
		ids[participant.TelegramID] = true
	}
	return ids, nil
}

// EventParticipants lists the other registered participants of an event,
// for the networking menu.
func EventParticipants(eventID uint, excludeTelegramID int64) ([]Participant, error) {
	db := state.State.Database

	var participants []Participant
	res := db.Joins("JOIN event_participants ON event_participants.participant_id = participants.id").
		Where("event_participants.event_id = ?", eventID).
		Where("participants.telegram_id <> ?", excludeTelegramID).
		Order("participants.name").
		Find(&participants)
	return participants, res.Error
}
