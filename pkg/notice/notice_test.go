package notice_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenest/ahem/pkg/messagebag"
	"github.com/codenest/ahem/pkg/notice"
)

func defaults() notice.Settings {
	return notice.Settings{
		Wrapper:                 "div",
		WrapperClass:            "alert-box",
		BeforeMessage:           `<a href="#" class="close">&times;</a>`,
		SingleMessage:           ":message",
		Heading:                 "<strong> :heading </strong>",
		MessageListWrapper:      "ul",
		MessageListWrapperClass: "",
		MessageList:             "<li> :message </li>",
		AfterMessage:            "",
	}
}

func TestID(t *testing.T) {
	t.Parallel()

	n, ok := notice.IntID(42).Int()
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = notice.ID("flash").Int()
	assert.False(t, ok)
}

func TestSettings_Overlay(t *testing.T) {
	t.Parallel()

	base := defaults()
	got := base.Overlay(notice.Overrides{
		WrapperClass:            notice.String("alert-box success"),
		MessageListWrapperClass: notice.String("list"),
		BeforeMessage:           notice.String(""),
	})

	assert.Equal(t, "alert-box success", got.WrapperClass)
	assert.Equal(t, "list", got.MessageListWrapperClass)
	assert.Equal(t, "", got.BeforeMessage)
	assert.Equal(t, base.Wrapper, got.Wrapper)
	assert.Equal(t, base.MessageList, got.MessageList)
	assert.Equal(t, "alert-box", base.WrapperClass, "base must not change")

	assert.True(t, notice.Overrides{}.IsZero())
	assert.Equal(t, base, notice.Settings{}.Overlay(base.Overrides()))
}

func TestNotice_Configure(t *testing.T) {
	t.Parallel()

	n := notice.New("warning", "1", true)
	n.AddKeyed("title", "Careful").AddMessage("Disk almost full")
	n.Configure(defaults().Overrides(), "title")
	n.Configure(notice.Overrides{WrapperClass: notice.String("warn")}, "")

	assert.Equal(t, "warn", n.Settings().WrapperClass)
	assert.Equal(t, "div", n.Settings().Wrapper)
	assert.Equal(t, "title", n.HeadingKey())
	assert.Equal(t, "<strong> Careful </strong>", n.Heading())
	assert.Equal(t, 1, n.Count())
	assert.Equal(t, "warning.1", n.Key())
}

func TestNotice_Render(t *testing.T) {
	t.Parallel()

	t.Run("single message without heading", func(t *testing.T) {
		t.Parallel()
		n := notice.New("info", notice.IntID(0), true)
		n.Configure(notice.Settings{Wrapper: "div", WrapperClass: "alert", SingleMessage: ":message"}.Overrides(), "")
		n.AddMessage("Saved")

		assert.Equal(t, `<div class="alert" >Saved</div>`, n.Render(nil))
	})

	t.Run("single message never emits a list wrapper", func(t *testing.T) {
		t.Parallel()
		n := notice.New("info", "0", true).Configure(defaults().Overrides(), "")
		n.AddMessage("Saved")

		out := n.Render(nil)
		assert.Equal(t, `<div class="alert-box" ><a href="#" class="close">&times;</a>Saved</div>`, out)
		assert.NotContains(t, out, "<ul")
	})

	t.Run("two messages emit list wrapper with empty heading", func(t *testing.T) {
		t.Parallel()
		n := notice.New("error", "0", true).Configure(defaults().Overrides(), "")
		n.AddKeyed("email", "Email is required").AddKeyed("name", "Name is required")

		assert.Equal(t,
			`<div class="alert-box" ><a href="#" class="close">&times;</a>`+
				`<ul class=""><li> Email is required </li><li> Name is required </li></ul></div>`,
			n.Render(nil))
	})

	t.Run("single message with heading renders list", func(t *testing.T) {
		t.Parallel()
		n := notice.New("error", "0", true).Configure(defaults().Overrides(), "")
		n.SetHeading("Whoops").AddMessage("Try again")

		assert.Equal(t,
			`<div class="alert-box" ><a href="#" class="close">&times;</a>`+
				`<strong> Whoops </strong><ul class=""><li> Try again </li></ul></div>`,
			n.Render(nil))
	})

	t.Run("heading only omits the list", func(t *testing.T) {
		t.Parallel()
		n := notice.New("info", "0", true).Configure(defaults().Overrides(), "")
		n.SetHeading("Just a heading")

		assert.Equal(t,
			`<div class="alert-box" ><a href="#" class="close">&times;</a><strong> Just a heading </strong></div>`,
			n.Render(nil))
	})

	t.Run("empty list wrapper tag is skipped", func(t *testing.T) {
		t.Parallel()
		n := notice.New("info", "0", true).Configure(defaults().Overrides(), "")
		n.MessageListWrapper("").MessageList("<p>:message</p>").BeforeMessage("")
		n.AddMessage("a").AddMessage("b")

		assert.Equal(t, `<div class="alert-box" ><p>a</p><p>b</p></div>`, n.Render(nil))
	})

	t.Run("caller attributes", func(t *testing.T) {
		t.Parallel()
		n := notice.New("info", "0", true).Wrapper("section", "note").SingleMessage(":message")
		n.AddMessage("Hi")

		assert.Equal(t, `<section class="custom" data-id="7" id="n&#34;1" >Hi</section>`,
			n.Render(map[string]string{"id": `n"1`, "class": "custom", "data-id": "7"}))
		assert.Equal(t, `<section class="note" role="alert" >Hi</section>`,
			n.Render(map[string]string{"role": "alert"}))
	})

	t.Run("fluent setters", func(t *testing.T) {
		t.Parallel()
		n := notice.New("info", "0", true).
			Wrapper("div").
			WrapperClass("box").
			AfterMessage("<hr>").
			HeadingFormat("<h4>:heading</h4>").
			MessageListWrapper("ol", "items").
			MessageListWrapperClass("things")
		n.SetHeading("Title").AddMessage("x")

		assert.Equal(t, `<div class="box" ><h4>Title</h4><ol class="things">x</ol><hr></div>`, n.Render(nil))
	})
}

func TestNotice_JSON(t *testing.T) {
	t.Parallel()

	n := notice.New("warning", "3", true).Configure(defaults().Overrides(), "summary")
	n.AddKeyed("summary", "Check input").AddKeyed("b", "second").AddKeyed("a", "first")

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "3", raw["id"])
	assert.Equal(t, "warning", raw["type"])
	assert.Equal(t, "Check input", raw["heading"])
	assert.Contains(t, raw, "settings")
	assert.Contains(t, raw, "messages")

	var decoded notice.Notice
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, n.Render(nil), decoded.Render(nil))
	assert.Equal(t, []string{"b", "a"}, decoded.Messages().Keys())
	assert.Equal(t, "summary", decoded.HeadingKey())
	assert.True(t, decoded.Flashable())

	t.Run("integer id", func(t *testing.T) {
		t.Parallel()
		var n notice.Notice
		require.NoError(t, json.Unmarshal([]byte(`{"id":5,"type":"info","messages":{"":["x"]}}`), &n))
		assert.Equal(t, notice.ID("5"), n.ID())
		assert.Equal(t, 1, n.Count())
		assert.Equal(t, messagebag.DefaultHeadingKey, n.HeadingKey())
	})

	t.Run("missing type", func(t *testing.T) {
		t.Parallel()
		var n notice.Notice
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"id":"1"}`), &n), notice.ErrInvalidRecord)
	})
}

func TestNotice_Clone(t *testing.T) {
	t.Parallel()

	n := notice.New("info", "1", true).AddMessage("a")
	c := n.Clone()
	c.AddMessage("b").SetFlashable(false)

	assert.Equal(t, 1, n.Count())
	assert.True(t, n.Flashable())
	assert.Equal(t, 2, c.Count())
}
