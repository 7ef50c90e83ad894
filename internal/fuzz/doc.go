// Package fuzztests houses Go fuzz harnesses for the lint pipeline
// (source -> parser -> walker -> directives). They guard against panics,
// hangs and malformed spans on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через парсер, правила и
// директивы подавления.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
