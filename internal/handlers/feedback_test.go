package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback_Success(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", jsonBody(t, SubmitFeedbackRequest{
		Emoji:    "😊",
		Feedback: "The new site is lovely",
		Page:     "/services",
	}))
	rec := httptest.NewRecorder()
	api.SubmitFeedback(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp SubmitFeedbackResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Thank you for your feedback!", resp.Message)

	require.Len(t, api.submissions.Feedback, 1)
	assert.Equal(t, "😊", api.submissions.Feedback[0].Emoji)
	assert.Equal(t, "/services", api.submissions.Feedback[0].Page)
}

func TestSubmitFeedback_EmojiOnly(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", jsonBody(t, SubmitFeedbackRequest{
		Emoji: "😐",
	}))
	rec := httptest.NewRecorder()
	api.SubmitFeedback(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, api.submissions.Feedback, 1)
	assert.Empty(t, api.submissions.Feedback[0].Feedback)
	assert.Equal(t, "/", api.submissions.Feedback[0].Page, "page defaults to the root")
}

func TestSubmitFeedback_MissingOrUnknownEmoji(t *testing.T) {
	api := newTestAPI(t)

	for _, emoji := range []string{"", "🤖", "happy"} {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", jsonBody(t, SubmitFeedbackRequest{
			Emoji:    emoji,
			Feedback: "some thoughts",
		}))
		rec := httptest.NewRecorder()
		api.SubmitFeedback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp SubmitFeedbackResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Please select an emoji.", resp.Message)
	}
	assert.Empty(t, api.submissions.Feedback)
}

func TestSubmitFeedback_PageFallsBackToReferer(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", jsonBody(t, SubmitFeedbackRequest{
		Emoji: "😢",
	}))
	req.Header.Set("Referer", "https://www.highergroundcare.com/about")
	rec := httptest.NewRecorder()
	api.SubmitFeedback(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, api.submissions.Feedback, 1)
	assert.Equal(t, "https://www.highergroundcare.com/about", api.submissions.Feedback[0].Page)
}
