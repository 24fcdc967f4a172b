package scanner

import "errors"

// DecoderConfig adalah konfigurasi yang diteruskan ke kapabilitas pemindai
// barcode eksternal. Engine tidak mendefinisikan algoritma decoding-nya.
type DecoderConfig struct {
	ContainerID string
	FPS         int
	BoxSize     int
}

// Handle mewakili stream kamera yang sedang dipegang satu sesi.
//
// Live harus membaca kondisi hardware sebenarnya, bukan status "sudah
// start" yang dilaporkan kapabilitas; kapabilitas bisa melapor sukses
// padahal stream-nya mati. ActiveTracks dipakai Stop untuk memastikan
// kamera benar-benar lepas (0 track) sebelum return.
type Handle interface {
	Live() bool
	ActiveTracks() int
}

// Decoder membungkus kapabilitas pemindaian eksternal: start/stop plus
// callback per frame yang berhasil di-decode dan callback untuk noise
// transient ("tidak ada kode di frame ini" dsb).
type Decoder interface {
	Start(cfg DecoderConfig, onDecode func(text string), onError func(err error)) (Handle, error)
	Stop(h Handle) error
}

// ErrCameraPermission menandai penolakan izin kamera. Tidak pernah
// di-retry; langsung di-surface ke user.
var ErrCameraPermission = errors.New("akses kamera ditolak")

func IsPermissionError(err error) bool {
	return errors.Is(err, ErrCameraPermission)
}
