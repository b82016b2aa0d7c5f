package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/arenainfra/podctl/domain"
	"github.com/pkg/errors"
)

// NewConfirmer returns a Confirmer that prints to out and reads answers from in.
func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out}
}

// Confirmer is an interactive yes/no gate. Only an explicit "y" confirms.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

var _ domain.Confirmer = (*Confirmer)(nil)

func (c *Confirmer) Confirm(ctx context.Context, prompt string, pods []*domain.Pod) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "\n%d pods:\n", len(pods))
	for _, pod := range pods {
		fmt.Fprintf(c.out, "  - %s\n", pod)
	}
	fmt.Fprintf(c.out, "\n%s (y/N): ", prompt)

	answer, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.WithMessage(err, "read confirmation")
	}
	if errors.Is(err, io.EOF) && answer == "" {
		fmt.Fprintln(c.out)
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}
