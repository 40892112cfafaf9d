/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// joinURL is the link a QR code points at: the home page with the room
// preselected.
func joinURL(cfg *Config, r *http.Request, roomID string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     cfg.prefix + "/",
		RawQuery: url.Values{"room": []string{roomID}}.Encode(),
	}

	return u.String()
}

// serveRoomQR renders a PNG QR code that lets a phone join a room.
func serveRoomQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")
		if roomID == "" || len(roomID) > 32 {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}

		png, err := qrcode.Encode(joinURL(cfg, r, roomID), qrcode.Medium, qrSize)
		if err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("SERVE: QR generation failed")
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err

			return
		}
	}
}
