package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// PromptForRequest asks for a free-text style request, offering suggestion
// as the default when the user enters nothing.
func PromptForRequest(in io.Reader, out io.Writer, suggestion string) string {
	fmt.Fprintf(out, "Describe the look [%s]: ", suggestion)

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		log.Warn().Err(err).Msg("Failed to read input, using suggestion")
		return suggestion
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return suggestion
	}
	return input
}
