package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tunaaoguzhann/expiring-media/core"
)

func main() {
	manager, err := core.NewManagerWithOptions(core.ManagerOptions{
		Secret: "my-secret-key-12345",
		TTL:    5 * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}

	ctx := context.Background()

	link, err := manager.Share(ctx, "user-123", core.Media{
		Name:        "note.txt",
		ContentType: "text/plain",
		Data:        []byte("see you in five seconds"),
	})
	if err != nil {
		log.Fatalf("Failed to share media: %v", err)
	}

	fmt.Printf("Shared media:\n")
	fmt.Printf("  Token: %s\n", link.Token)
	fmt.Printf("  Link payload: %s\n", link.Payload)
	fmt.Printf("  Expires At: %s\n\n", link.ExpiresAt)

	media, err := manager.Redeem(ctx, link.Payload)
	if err != nil {
		log.Fatalf("Failed to redeem link: %v", err)
	}
	fmt.Printf("Redeemed %s (%s): %q\n", media.Name, media.ContentType, media.Data)

	if _, err := manager.Redeem(ctx, link.Payload); err != nil {
		fmt.Printf("\nAs expected, a link cannot be redeemed twice: %v\n", err)
	}

	// The bare store works with any value type.
	store := core.NewExpiringStore[string](core.StoreConfig{TTL: 5 * time.Second})
	token := store.Put("hello")
	value, ok := store.Take(token)
	fmt.Printf("\nStore round trip: %q %v\n", value, ok)
}
