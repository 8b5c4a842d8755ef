// Package notice implements a single user-facing notification: its identity
// (type and id), its messages and the settings used to render it as HTML.
//
// Settings are a typed struct. Overrides carries the same fields as pointers
// so that partial configuration can be layered with Settings.Overlay: a nil
// field inherits, a non-nil one (even an empty string) replaces.
//
// # Rendering
//
// Render applies one rule:
//
//   - exactly one message and no heading: the single_message template only;
//   - anything else: the heading line followed by the message list, the list
//     wrapped in message_list_wrapper when that tag is set.
//
// In both cases the output is framed by the wrapper element, before_message
// and after_message:
//
//	n := notice.New("info", notice.IntID(0), true)
//	n.Configure(notice.Settings{
//	    Wrapper:       "div",
//	    WrapperClass:  "alert",
//	    SingleMessage: ":message",
//	}.Overrides(), "")
//	n.AddMessage("Saved")
//	n.Render(nil) // <div class="alert" >Saved</div>
//
// # Serialization
//
// Notices encode to JSON as {id, type, settings, heading_key, heading,
// messages}; message keys keep their order across a round trip.
package notice
