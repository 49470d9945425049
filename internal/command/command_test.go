package command_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/command"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model/modeltest"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

const unfilteredWarning = "filter matched no element definitions"

func TestRestrictiveFilterMatchingNothingIsLogged(t *testing.T) {
	tests := []struct {
		name     string
		criteria func(*types.Arguments)
		warn     bool
	}{
		{
			name:     "no criteria",
			criteria: func(*types.Arguments) {},
		},
		{
			name:     "unknown category",
			criteria: func(a *types.Arguments) { a.FilteredCategories = []string{"noSuchCategory"} },
			warn:     true,
		},
		{
			name:     "no owner included",
			criteria: func(a *types.Arguments) { a.IncludedOwners = []string{"noSuchDomain"} },
			warn:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := modeltest.NewFixture()
			args := changeDomainArgs()
			tt.criteria(&args)

			var buf bytes.Buffer
			opts := command.Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
			o, err := command.NewDomainCommand(args, f.Snapshot(), newFilter(t, f, args), opts).ChangeDomain()

			requireBuilt(t, o, err, 10)
			if tt.warn {
				assert.Equal(t, 1, strings.Count(buf.String(), unfilteredWarning))
				assert.Contains(t, buf.String(), "level=WARN")
			} else {
				assert.NotContains(t, buf.String(), unfilteredWarning)
			}
		})
	}
}
