package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Stdio реализация IO поверх потоков процесса
type Stdio struct {
	out     io.Writer
	in      *bufio.Reader
	inFile  *os.File // inFile nil, если ввод не из файла: пароль читается как обычная строка
	success *color.Color
	warn    *color.Color
}

// NewStdio работает с stdin/stdout. Цвет включается только на терминале.
func NewStdio() *Stdio {
	s := newStdio(os.Stdout, os.Stdin, term.IsTerminal(int(os.Stdout.Fd())))
	s.inFile = os.Stdin
	return s
}

// NewStream работает с произвольными потоками, без цвета
func NewStream(out io.Writer, in io.Reader) *Stdio {
	return newStdio(out, in, false)
}

func newStdio(out io.Writer, in io.Reader, colored bool) *Stdio {
	s := &Stdio{
		out:     out,
		in:      bufio.NewReader(in),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
	}
	if colored {
		s.success.EnableColor()
		s.warn.EnableColor()
	} else {
		s.success.DisableColor()
		s.warn.DisableColor()
	}
	return s
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Success(format string, a ...any) {
	_, _ = s.success.Fprintln(s.out, fmt.Sprintf(format, a...))
}

func (s *Stdio) Warn(format string, a ...any) {
	_, _ = s.warn.Fprintln(s.out, fmt.Sprintf(format, a...))
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword читает строку без эха. Если ввод не терминал (pipe, тест),
// строка читается как есть.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	if s.inFile == nil || !term.IsTerminal(int(s.inFile.Fd())) {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(int(s.inFile.Fd()))
	s.Println("")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pwBytes)), nil
}
