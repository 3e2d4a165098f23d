package notes_fx

import (
	"go.uber.org/fx"

	"tripnotes/internal/repositories"
)

var Module = fx.Provide(repositories.NewNoteRepository)
