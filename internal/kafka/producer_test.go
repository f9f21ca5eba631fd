package kafka

import (
	"context"
	"testing"
)

// Urutan shutdown di main: Close() dulu, baru cancel(). Dua-duanya jalur
// penutup inbox; jalankan berulang supaya race close-vs-cancel kejadian.
func TestProducer_CloseThenCancel(t *testing.T) {
	for i := 0; i < 100; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		p := NewProducer([]string{"127.0.0.1:1"}, "test-topic", 8, nil)
		p.Start(ctx)

		p.Close()
		cancel()
		p.WaitClosed() // panic kalau inbox ditutup dua kali
	}
}

func TestProducer_CancelOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewProducer([]string{"127.0.0.1:1"}, "test-topic", 8, nil)
	p.Start(ctx)

	cancel()
	p.WaitClosed()
}

func TestProducer_CloseFlushesInbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewProducer([]string{"127.0.0.1:1"}, "test-topic", 8, nil)
	p.Publish([]byte("k"), []byte("v"))
	p.Publish([]byte("k"), []byte("v"))

	// Start setelah publish: drain jalan dari inbox yang sudah terisi.
	p.Start(ctx)
	p.Close()
	p.WaitClosed()
}
