// Package iocli ввод и вывод командной строки. Команды работают через IO,
// чтобы в тестах вывод можно было перехватить.
package iocli

//go:generate moq -out io_mock.go . IO

// IO терминал пользователя
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// Success печатает строку с переводом строки, зеленым на терминале
	Success(format string, a ...any)
	// Warn печатает строку с переводом строки, желтым на терминале
	Warn(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
