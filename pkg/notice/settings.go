package notice

// Settings holds the resolved rendering configuration of a notice.
type Settings struct {
	Wrapper                 string `yaml:"wrapper" json:"wrapper"`
	WrapperClass            string `yaml:"wrapper_class" json:"wrapper_class"`
	BeforeMessage           string `yaml:"before_message" json:"before_message"`
	AfterMessage            string `yaml:"after_message" json:"after_message"`
	SingleMessage           string `yaml:"single_message" json:"single_message"`
	Heading                 string `yaml:"heading" json:"heading"`
	MessageListWrapper      string `yaml:"message_list_wrapper" json:"message_list_wrapper"`
	MessageListWrapperClass string `yaml:"message_list_wrapper_class" json:"message_list_wrapper_class"`
	MessageList             string `yaml:"message_list" json:"message_list"`
}

// Overrides is a partial Settings: nil fields inherit.
type Overrides struct {
	Wrapper                 *string `yaml:"wrapper,omitempty" json:"wrapper,omitempty"`
	WrapperClass            *string `yaml:"wrapper_class,omitempty" json:"wrapper_class,omitempty"`
	BeforeMessage           *string `yaml:"before_message,omitempty" json:"before_message,omitempty"`
	AfterMessage            *string `yaml:"after_message,omitempty" json:"after_message,omitempty"`
	SingleMessage           *string `yaml:"single_message,omitempty" json:"single_message,omitempty"`
	Heading                 *string `yaml:"heading,omitempty" json:"heading,omitempty"`
	MessageListWrapper      *string `yaml:"message_list_wrapper,omitempty" json:"message_list_wrapper,omitempty"`
	MessageListWrapperClass *string `yaml:"message_list_wrapper_class,omitempty" json:"message_list_wrapper_class,omitempty"`
	MessageList             *string `yaml:"message_list,omitempty" json:"message_list,omitempty"`
}

// Overlay returns s with every non-nil field of o applied.
// The overlay is shallow: each field is replaced as a whole.
func (s Settings) Overlay(o Overrides) Settings {
	set(&s.Wrapper, o.Wrapper)
	set(&s.WrapperClass, o.WrapperClass)
	set(&s.BeforeMessage, o.BeforeMessage)
	set(&s.AfterMessage, o.AfterMessage)
	set(&s.SingleMessage, o.SingleMessage)
	set(&s.Heading, o.Heading)
	set(&s.MessageListWrapper, o.MessageListWrapper)
	set(&s.MessageListWrapperClass, o.MessageListWrapperClass)
	set(&s.MessageList, o.MessageList)
	return s
}

// Overrides converts s into a fully populated Overrides value.
func (s Settings) Overrides() Overrides {
	return Overrides{
		Wrapper:                 String(s.Wrapper),
		WrapperClass:            String(s.WrapperClass),
		BeforeMessage:           String(s.BeforeMessage),
		AfterMessage:            String(s.AfterMessage),
		SingleMessage:           String(s.SingleMessage),
		Heading:                 String(s.Heading),
		MessageListWrapper:      String(s.MessageListWrapper),
		MessageListWrapperClass: String(s.MessageListWrapperClass),
		MessageList:             String(s.MessageList),
	}
}

// IsZero reports whether no field is overridden.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// String returns a pointer to v, for building Overrides literals.
func String(v string) *string {
	return &v
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
