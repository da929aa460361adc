package main

import (
	"context"
	"errors"
	"fmt"
	postapp "timelium/internal/core/post/service"
	userEntity "timelium/internal/core/user"
	userapp "timelium/internal/core/user/service"
	userPort "timelium/internal/ports/user"

	"go.uber.org/zap"
)

var demoLocations = []string{
	"Dhaka, Bangladesh",
	"Chittagong, Bangladesh",
	"Berlin, Germany",
	"Munich, Germany",
	"Germany",
	"",
}

// seedDemo creates a few users per location with some posts each. Safe to
// run twice: existing usernames are skipped.
func seedDemo(ctx context.Context, logger *zap.Logger, userSvc *userapp.UserService, postSvc *postapp.PostService) {
	const usersPerLocation = 5
	const postsPerUser = 4

	logger.Info("🚀 Seeding demo data...")
	created := 0
	for li, loc := range demoLocations {
		for i := 0; i < usersPerLocation; i++ {
			username := fmt.Sprintf("demo%d_%d", li, i)
			u, err := userSvc.CreateUser(ctx, userPort.CreateUserInput{
				Username: username,
				Fullname: fmt.Sprintf("Demo User %d-%d", li, i),
				Location: loc,
			})
			if errors.Is(err, userEntity.ErrUsernameTaken) {
				continue
			}
			if err != nil {
				logger.Error("❌ Error creating user", zap.String("username", username), zap.Error(err))
				continue
			}
			for p := 1; p <= postsPerUser; p++ {
				content := fmt.Sprintf("Post %d by %s #demo", p, username)
				if _, err := postSvc.CreatePost(ctx, u.ID.String(), content, ""); err != nil {
					logger.Error("❌ Error creating post", zap.String("userID", u.ID.String()), zap.Error(err))
					continue
				}
				created++
			}
		}
	}
	logger.Info("✅ Demo data ready", zap.Int("posts", created))
}
