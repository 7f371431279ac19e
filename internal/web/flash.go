package web

import (
	"net/http"
	"net/url"
)

const toastCookie = "toast"

// setToast stores a one-shot notification for the next page render.
func setToast(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     toastCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popToast returns and clears the pending notification, if any.
func popToast(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(toastCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     toastCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
