// Package nauth has small helpers for pages that deal with logins.
package nauth

import (
	"encoding/xml"
	"net/http"
	"net/url"
)

const (
	// DefaultRel is the rel of the link made by LogoutLink
	DefaultRel = "take:logout"
	// DefaultFlag is the query parameter added by LogoutLink
	DefaultFlag = "PsByFlag"
	// LogoutValue is the value of the flag that asks for a logout
	LogoutValue = "PsLogout"
)

// Link is a named hyperlink.  It marshals to XML as
// <link rel="..." href="..."/>.
type Link struct {
	XMLName xml.Name `xml:"link"`
	Rel     string   `xml:"rel,attr"`
	Href    string   `xml:"href,attr"`
}

// LogoutLink links back to the current request with a flag that
// asks for the user to be logged out.
func LogoutLink(r *http.Request) Link {
	return LogoutLinkWith(r, DefaultRel, DefaultFlag)
}

// LogoutLinkWith is LogoutLink with a custom rel and flag name
func LogoutLinkWith(r *http.Request, rel, flag string) Link {
	u := Href(r)
	param := url.QueryEscape(flag) + "=" + url.QueryEscape(LogoutValue)
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}
	return Link{
		Rel:  rel,
		Href: u.String(),
	}
}

// Href is the absolute URL of the request.  The scheme and host
// come from the request when the URL does not have them.
func Href(r *http.Request) *url.URL {
	var u url.URL
	if r.URL != nil {
		u = *r.URL
	}
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		if r.TLS != nil {
			u.Scheme = "https"
		} else {
			u.Scheme = "http"
		}
	}
	return &u
}
