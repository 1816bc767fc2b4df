package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	userUsecase "github.com/journeymanhq/dataprotect/internal/user/usecase"
)

// RunCreateUser registers a new user record. The password is hashed before
// storage. Supports both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase userUsecase.UseCase,
	logger *slog.Logger,
	out io.Writer,
	username, email, password, format string,
) error {
	logger.Info("creating user", slog.String("username", username))

	user, err := useCase.RegisterUser(ctx, userUsecase.RegisterUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		result := map[string]string{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}

	fmt.Fprintf(out, "Successfully created user %s (%s) with ID %s\n", user.Username, user.Email, user.ID)
	return nil
}
