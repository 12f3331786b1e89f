package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sprintdeck/sprintdeck/pkg/domain/model"
)

func TestSanitizeDetails(t *testing.T) {
	got := model.SanitizeDetails(map[string]string{
		"title":  `<script>alert("x")</script>`,
		"status": "todo",
	})
	gt.Value(t, got["title"]).Equal("&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	gt.Value(t, got["status"]).Equal("todo")
}

func TestSanitizeDetails_Nil(t *testing.T) {
	gt.Value(t, model.SanitizeDetails(nil)).Nil()
}
