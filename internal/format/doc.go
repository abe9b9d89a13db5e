// Package format is the line writer the emitters render generated sources with.
//
// Назначение: отступы, блоки и doc-комментарии для Rust и Dart вывода.
// Не делает: разбора или переформатирования исходников, IO.
package format
