// Package messagebag provides a keyed, deduplicating message collection with a
// distinguished heading.
//
// Messages are grouped by key (for example a form field name) and keep their
// insertion order. A (key, message) pair is stored at most once, so adding the
// same text twice under the same key is a no-op while the same text under two
// keys is kept twice.
//
// One key, the heading key, is reserved: anything added or merged under it
// replaces the bag's heading instead of being stored as a message. A
// configured message key that coincides with the heading key is therefore
// diverted silently, it is never reported as an error.
//
// # Usage
//
//	bag := messagebag.New("notification_heading")
//	bag.Add("email", "Email is required")
//	bag.Merge(map[string][]string{
//	    "notification_heading": {"Please fix the following"},
//	    "password":             {"Password is too short"},
//	})
//
//	bag.Heading("<strong>:heading</strong>") // <strong>Please fix the following</strong>
//	bag.All("<li>:message</li>")             // one item per message
//
// Formats are plain strings containing the :message or :heading placeholder,
// substituted literally.
package messagebag
