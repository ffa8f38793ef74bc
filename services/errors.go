package services

import (
	"errors"
	"fmt"
)

// Error bertipe supaya controller bisa memetakan ke kode HTTP lewat
// errors.As / errors.Is. Kegagalan repository (gorm) diteruskan apa adanya.

// ValidationError: input dari caller salah bentuk. Bisa diperbaiki caller,
// tidak pernah di-retry otomatis.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError: kalah race optimistik (meja keburu dipakai, status berubah
// di antara baca dan tulis). Caller boleh refresh lalu retry sekali.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// InvalidStateError: operasi tidak sah di status entity sekarang
// (mis. mengubah order yang sudah selesai).
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// IllegalTransitionError: perpindahan status yang dilarang mesin status.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("tidak bisa pindah dari status %s ke %s", e.From, e.To)
}

// Alasan penolakan promosi, dikirim apa adanya ke UI.
var (
	ErrPromotionInactive   = errors.New("promosi tidak aktif")
	ErrPromotionNotStarted = errors.New("promosi belum mulai")
	ErrPromotionExpired    = errors.New("promosi sudah berakhir")
	ErrPromotionUsageLimit = errors.New("kuota pemakaian promosi sudah habis")
	ErrPromotionMinOrder   = errors.New("total order belum memenuhi minimum promosi")
)
