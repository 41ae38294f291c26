package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-trainer/internal/config"
)

const (
	accessCookieName = "access"
	flashCookieName  = "flash"
)

type CookiesProcessor struct {
	path            string
	domain          string
	secure          bool
	accessExpiresIn time.Duration
	flashExpiresIn  time.Duration
}

func NewCookiesProcessor(conf config.Cookie) *CookiesProcessor {
	return &CookiesProcessor{
		path:            conf.Path,
		domain:          conf.Domain,
		secure:          conf.Secure,
		accessExpiresIn: conf.AccessExpiresIn,
		flashExpiresIn:  conf.FlashExpiresIn,
	}
}

func (p *CookiesProcessor) NewAccessTokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     accessCookieName,
		Path:     p.path,
		Domain:   p.domain,
		Value:    token,
		Expires:  time.Now().Add(p.accessExpiresIn),
		Secure:   p.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (p *CookiesProcessor) GetAccessToken(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(accessCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (p *CookiesProcessor) ExpireAccessTokenCookie() *http.Cookie {
	return p.expire(accessCookieName)
}

// SetFlash stores a one-off notice shown by the next rendered page.
func (p *CookiesProcessor) SetFlash(c echo.Context, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Path:     p.path,
		Domain:   p.domain,
		Value:    url.QueryEscape(message),
		Expires:  time.Now().Add(p.flashExpiresIn),
		Secure:   p.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func (p *CookiesProcessor) PopFlash(c echo.Context) string {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(p.expire(flashCookieName))

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

func (p *CookiesProcessor) expire(name string) *http.Cookie {
	return &http.Cookie{
		Name:    name,
		Path:    p.path,
		Domain:  p.domain,
		Value:   "",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	}
}
