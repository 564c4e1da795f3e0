package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/tutorhub/internal/model"
)

// The calendar projector turns the fetched collections into display
// events. Everything in this file is a pure function of its inputs so
// the rules stay testable without a database.

// ProjectorInput carries the collections one projection runs over.
type ProjectorInput struct {
	Occurrences []*model.SessionOccurrence
	Slots       []*model.AvailabilitySlot
	MockExams   []*model.MockExamBooking
	Pending     map[uuid.UUID]*model.ChangeRequest // newest pending request per occurrence
	LoggedIDs   map[uuid.UUID]struct{}             // occurrence ids already logged in a timesheet
	Students    map[uuid.UUID]model.Student
	Groups      map[uuid.UUID][]model.Student // known members per group id
	Now         time.Time
}

// NeedsAction reports whether an occurrence ended in the past without
// ever being actioned. This is the single definition shared by the
// calendar projection, the alerts endpoint and the notification sweep.
func NeedsAction(occ *model.SessionOccurrence, logged map[uuid.UUID]struct{}, now time.Time) bool {
	if !occ.EndTime.Before(now) {
		return false
	}
	if occ.Status != model.OccurrenceStatusScheduled && occ.Status != model.OccurrenceStatusConfirmed {
		return false
	}
	_, isLogged := logged[occ.ID]
	return !isLogged
}

// SessionsNeedingAction filters the occurrences through NeedsAction.
func SessionsNeedingAction(occurrences []*model.SessionOccurrence, logged map[uuid.UUID]struct{}, now time.Time) []*model.SessionOccurrence {
	var flagged []*model.SessionOccurrence
	for _, occ := range occurrences {
		if NeedsAction(occ, logged, now) {
			flagged = append(flagged, occ)
		}
	}
	return flagged
}

// ResolveStyle picks the status color for one occurrence. Priority
// order, first match wins: pending cancel, pending reschedule, terminal
// status, past-unactioned, confirmed, default scheduled.
func ResolveStyle(occ *model.SessionOccurrence, pending *model.ChangeRequest, isLogged bool, now time.Time) model.EventStyle {
	if pending != nil && pending.Status == model.ChangeRequestStatusPending {
		if pending.Type == model.ChangeRequestCancel {
			return model.StyleTentativeCancel
		}
		return model.StyleTentativeReschedule
	}

	switch occ.Status {
	case model.OccurrenceStatusCancelled:
		return model.StyleCancelled
	case model.OccurrenceStatusNoShow:
		return model.StyleNoShow
	case model.OccurrenceStatusCompleted:
		return model.StyleCompleted
	}

	if isLogged {
		return model.StyleCompleted
	}

	if occ.EndTime.Before(now) {
		// scheduled or confirmed at this point
		return model.StyleNeedsAction
	}

	if occ.Status == model.OccurrenceStatusConfirmed {
		return model.StyleConfirmed
	}

	return model.StyleScheduled
}

// GroupKey identifies one logical class session: occurrences sharing it
// are the same class replicated per student.
func GroupKey(groupID uuid.UUID, start, end time.Time) string {
	return groupID.String() + "|" + start.UTC().Format(time.RFC3339) + "|" + end.UTC().Format(time.RFC3339)
}

// ProjectEvents builds the full calendar event list: individual session
// events, one merged event per group bucket, expanded recurring
// availability instances and all-day mock exam overlays.
func ProjectEvents(in ProjectorInput) []model.CalendarEvent {
	events := make([]model.CalendarEvent, 0, len(in.Occurrences))

	groups := make(map[string][]*model.SessionOccurrence)
	var groupOrder []string

	for _, occ := range in.Occurrences {
		if occ.GroupID == nil {
			events = append(events, projectIndividual(occ, in))
			continue
		}
		key := GroupKey(*occ.GroupID, occ.StartTime, occ.EndTime)
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], occ)
	}

	for _, key := range groupOrder {
		events = append(events, projectGroup(key, groups[key], in))
	}

	for _, slot := range in.Slots {
		events = append(events, ExpandRecurringSlot(slot, in.Now)...)
	}

	for _, exam := range in.MockExams {
		events = append(events, projectMockExam(exam, in.Students))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events
}

func projectIndividual(occ *model.SessionOccurrence, in ProjectorInput) model.CalendarEvent {
	_, isLogged := in.LoggedIDs[occ.ID]

	title := occ.Subject
	if occ.StudentID != nil {
		if student, ok := in.Students[*occ.StudentID]; ok {
			title = student.Name
			if occ.Subject != "" {
				title = student.Name + " - " + occ.Subject
			}
		}
	}

	return model.CalendarEvent{
		ID:            occ.ID.String(),
		Kind:          model.EventKindSession,
		Title:         title,
		Start:         occ.StartTime,
		End:           occ.EndTime,
		Style:         ResolveStyle(occ, in.Pending[occ.ID], isLogged, in.Now),
		Clickable:     true,
		OccurrenceIDs: []uuid.UUID{occ.ID},
	}
}

func projectGroup(key string, bucket []*model.SessionOccurrence, in ProjectorInput) model.CalendarEvent {
	first := bucket[0]

	ids := make([]uuid.UUID, 0, len(bucket))
	allLogged := true
	var firstUnlogged *model.SessionOccurrence
	for _, occ := range bucket {
		ids = append(ids, occ.ID)
		if _, ok := in.LoggedIDs[occ.ID]; !ok {
			allLogged = false
			if firstUnlogged == nil {
				firstUnlogged = occ
			}
		}
	}

	members := groupMembers(*first.GroupID, bucket, in)

	title := first.Subject
	if title == "" {
		title = "Group session"
	}
	if len(members) > 0 {
		names := make([]string, 0, len(members))
		for _, m := range members {
			names = append(names, m.Name)
		}
		title = title + " (" + strings.Join(names, ", ") + ")"
	}

	// A group event is completed only when every occurrence is logged;
	// otherwise the first unlogged occurrence drives the style.
	var style model.EventStyle
	if allLogged {
		style = model.StyleCompleted
	} else {
		_, isLogged := in.LoggedIDs[firstUnlogged.ID]
		style = ResolveStyle(firstUnlogged, in.Pending[firstUnlogged.ID], isLogged, in.Now)
	}

	return model.CalendarEvent{
		ID:            "group-" + key,
		Kind:          model.EventKindGroupSession,
		Title:         title,
		Start:         first.StartTime,
		End:           first.EndTime,
		Style:         style,
		Clickable:     true,
		OccurrenceIDs: ids,
		Members:       members,
	}
}

// groupMembers resolves the member list with a three-tier fallback:
// denormalized members on the occurrences, then the group's known member
// record, then whatever students hang off the bucket rows.
func groupMembers(groupID uuid.UUID, bucket []*model.SessionOccurrence, in ProjectorInput) []model.Student {
	for _, occ := range bucket {
		if len(occ.GroupMembers) > 0 {
			return occ.GroupMembers
		}
	}

	if members := in.Groups[groupID]; len(members) > 0 {
		return members
	}

	var members []model.Student
	seen := make(map[uuid.UUID]struct{})
	for _, occ := range bucket {
		if occ.StudentID == nil {
			continue
		}
		if _, dup := seen[*occ.StudentID]; dup {
			continue
		}
		seen[*occ.StudentID] = struct{}{}
		if student, ok := in.Students[*occ.StudentID]; ok {
			members = append(members, student)
		} else if occ.Student != nil {
			members = append(members, *occ.Student)
		}
	}

	return members
}

// ExpandRecurringSlot projects a weekly availability slot into concrete
// calendar instances: anchor on the next occurrence of its weekday
// (today counts), generate week offsets -1..+6, keep only dates from
// today on. Seasonal slots produce no instances.
func ExpandRecurringSlot(slot *model.AvailabilitySlot, now time.Time) []model.CalendarEvent {
	if !slot.IsRecurring {
		return nil
	}

	startHour, startMinute, err := parseClock(slot.StartTime)
	if err != nil {
		return nil
	}
	endHour, endMinute, err := parseClock(slot.EndTime)
	if err != nil {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daysAhead := (slot.DayOfWeek - int(today.Weekday()) + 7) % 7
	anchor := today.AddDate(0, 0, daysAhead)

	var events []model.CalendarEvent
	for week := -1; week <= 6; week++ {
		date := anchor.AddDate(0, 0, week*7)
		if date.Before(today) {
			continue
		}

		start := time.Date(date.Year(), date.Month(), date.Day(), startHour, startMinute, 0, 0, date.Location())
		end := time.Date(date.Year(), date.Month(), date.Day(), endHour, endMinute, 0, 0, date.Location())

		title := "Available"
		if slot.Notes != "" {
			title = "Available - " + slot.Notes
		}

		events = append(events, model.CalendarEvent{
			ID:        fmt.Sprintf("availability-%s-%s", slot.ID, date.Format("2006-01-02")),
			Kind:      model.EventKindAvailability,
			Title:     title,
			Start:     start,
			End:       end,
			Style:     model.StyleAvailability,
			Clickable: true,
		})
	}

	return events
}

func projectMockExam(exam *model.MockExamBooking, students map[uuid.UUID]model.Student) model.CalendarEvent {
	title := "Mock exam: " + exam.Subject
	if student, ok := students[exam.StudentID]; ok {
		title = title + " (" + student.Name + ")"
	}

	return model.CalendarEvent{
		ID:        "mock-exam-" + exam.ID.String(),
		Kind:      model.EventKindMockExam,
		Title:     title,
		Start:     exam.ExamDate,
		End:       exam.ExamDate.AddDate(0, 0, 1),
		AllDay:    true,
		Style:     model.StyleMockExam,
		Clickable: false, // display only, blocks the date visually
	}
}

func parseClock(v string) (hour, minute int, err error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", v)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", v)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", v)
	}
	return hour, minute, nil
}
