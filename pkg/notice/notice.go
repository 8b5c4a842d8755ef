package notice

import (
	"strconv"

	"github.com/codenest/ahem/pkg/messagebag"
)

// ID identifies a notice within its type. Integer ids are carried in their
// decimal string form.
type ID string

// IntID returns the ID for an integer identifier.
func IntID(n int) ID {
	return ID(strconv.Itoa(n))
}

// Int returns the numeric value of a decimal id.
func (id ID) Int() (int, bool) {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ID) String() string {
	return string(id)
}

// Notice is one notification instance: identity, messages and the settings
// used to render it.
//
// Notices are built by the factory through the container; callers receive
// them already configured. Not safe for concurrent use.
type Notice struct {
	typ       string
	id        ID
	flashable bool
	settings  Settings
	messages  *messagebag.Bag
}

// New creates an unconfigured notice.
func New(typ string, id ID, flashable bool) *Notice {
	return &Notice{
		typ:       typ,
		id:        id,
		flashable: flashable,
		messages:  messagebag.New(""),
	}
}

func (n *Notice) Type() string { return n.typ }

func (n *Notice) ID() ID { return n.id }

// SetID replaces the notice id. Used by the container when allocating ids.
func (n *Notice) SetID(id ID) *Notice {
	n.id = id
	return n
}

// Key returns "type.id", unique across a container.
func (n *Notice) Key() string {
	return n.typ + "." + string(n.id)
}

// Flashable reports whether the notice is persisted to the flash store.
func (n *Notice) Flashable() bool { return n.flashable }

func (n *Notice) SetFlashable(flashable bool) *Notice {
	n.flashable = flashable
	return n
}

// Settings returns the notice's resolved rendering settings.
func (n *Notice) Settings() Settings { return n.settings }

// Messages returns the underlying message bag.
func (n *Notice) Messages() *messagebag.Bag { return n.messages }

func (n *Notice) HeadingKey() string { return n.messages.HeadingKey() }

// Configure overlays settings onto the notice's own settings, later calls
// winning, and forwards a non-empty headingKey to the message bag.
func (n *Notice) Configure(settings Overrides, headingKey string) *Notice {
	n.settings = n.settings.Overlay(settings)
	if headingKey != "" {
		n.messages.SetHeadingKey(headingKey)
	}
	return n
}

// UseHeadingKey changes which message key becomes the heading.
func (n *Notice) UseHeadingKey(key string) *Notice {
	n.messages.SetHeadingKey(key)
	return n
}

func (n *Notice) SetHeading(heading string) *Notice {
	n.messages.SetHeading(heading)
	return n
}

// Heading returns the heading formatted with the heading setting.
func (n *Notice) Heading() string {
	return n.messages.Heading(n.settings.Heading)
}

// AddMessage appends an untagged message.
func (n *Notice) AddMessage(message string) *Notice {
	n.messages.AddMessage(message)
	return n
}

// AddKeyed appends message under key.
func (n *Notice) AddKeyed(key, message string) *Notice {
	n.messages.Add(key, message)
	return n
}

// AddMessages merges keyed messages.
func (n *Notice) AddMessages(messages map[string][]string) *Notice {
	n.messages.Merge(messages)
	return n
}

// AddBag merges another bag, heading included.
func (n *Notice) AddBag(bag *messagebag.Bag) *Notice {
	n.messages.MergeBag(bag)
	return n
}

// Count returns the number of messages, heading excluded.
func (n *Notice) Count() int {
	return n.messages.Count()
}

// Clone returns a deep copy of the notice.
func (n *Notice) Clone() *Notice {
	c := *n
	c.messages = n.messages.Clone()
	return &c
}

// Wrapper sets the wrapper tag and, optionally, its class.
func (n *Notice) Wrapper(tag string, class ...string) *Notice {
	n.settings.Wrapper = tag
	if len(class) > 0 {
		n.settings.WrapperClass = class[0]
	}
	return n
}

func (n *Notice) WrapperClass(class string) *Notice {
	n.settings.WrapperClass = class
	return n
}

func (n *Notice) BeforeMessage(html string) *Notice {
	n.settings.BeforeMessage = html
	return n
}

func (n *Notice) AfterMessage(html string) *Notice {
	n.settings.AfterMessage = html
	return n
}

// SingleMessage sets the :message template used for a lone message.
func (n *Notice) SingleMessage(format string) *Notice {
	n.settings.SingleMessage = format
	return n
}

// HeadingFormat sets the :heading template.
func (n *Notice) HeadingFormat(format string) *Notice {
	n.settings.Heading = format
	return n
}

// MessageListWrapper sets the list tag and, optionally, its class.
func (n *Notice) MessageListWrapper(tag string, class ...string) *Notice {
	n.settings.MessageListWrapper = tag
	if len(class) > 0 {
		n.settings.MessageListWrapperClass = class[0]
	}
	return n
}

func (n *Notice) MessageListWrapperClass(class string) *Notice {
	n.settings.MessageListWrapperClass = class
	return n
}

// MessageList sets the :message template of each list item.
func (n *Notice) MessageList(format string) *Notice {
	n.settings.MessageList = format
	return n
}
