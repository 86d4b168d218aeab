package realtime

import "fmt"

// Event names pushed to room subscribers. The payload shape of each event is
// whatever the triggering handler persisted, so clients can apply updates
// without a refetch.
const (
	EventListAdded   = "list_added"
	EventListDeleted = "list_deleted"

	EventItemAdded   = "item_added"
	EventItemEdited  = "item_edited"
	EventItemToggled = "item_toggled"
	EventItemDeleted = "item_deleted"

	EventCalendarAdded   = "event_added"
	EventCalendarUpdated = "event_updated"
	EventCalendarDeleted = "event_deleted"

	EventMealUpdated = "meal_updated"
	EventMealDeleted = "meal_deleted"

	EventNoteAdded   = "note_added"
	EventNotePinned  = "note_pinned"
	EventNoteDeleted = "note_deleted"

	EventChoreToggled = "chore_toggled"

	// EventNewActivity is a lightweight nudge sent to the family room when
	// something changed inside a narrower room, so dashboards can show an
	// activity indicator without subscribing to every list.
	EventNewActivity = "new_activity"
)

// RoomFamily is the room name for family-wide broadcasts
func RoomFamily(familyID int64) string {
	return fmt.Sprintf("family_%d", familyID)
}

// RoomList is the room name for a single shopping list
func RoomList(listID int64) string {
	return fmt.Sprintf("list_%d", listID)
}
