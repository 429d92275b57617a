package service

import (
	"context"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/lumora/memoria-backend/internal/repository"
)

// QRService renders share QR codes for memorial pages
type QRService interface {
	MemorialQR(ctx context.Context, memorialID string, size int) ([]byte, error)
}

type qrService struct {
	memRepo repository.MemorialRepository
	baseURL string
}

// NewQRService creates a new QRService. baseURL is the public site root,
// e.g. https://memoria.lumora.com
func NewQRService(memRepo repository.MemorialRepository, baseURL string) QRService {
	return &qrService{memRepo: memRepo, baseURL: strings.TrimRight(baseURL, "/")}
}

// MemorialQR returns a PNG QR code pointing at the memorial's public page.
// The memorial must exist; access control happens when the link is opened,
// not when the code is printed.
func (s *qrService) MemorialQR(ctx context.Context, memorialID string, size int) ([]byte, error) {
	if _, err := s.memRepo.FindByID(ctx, memorialID); err != nil {
		return nil, err
	}

	if size < 64 || size > 1024 {
		size = 256
	}

	url := fmt.Sprintf("%s/memorials/%s", s.baseURL, memorialID)
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}
