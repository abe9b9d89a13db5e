// Package fuzztests houses Go fuzz harnesses for the generator front end
// (source -> lexer -> parser -> items -> plan -> emitters) and the reply
// wire codec. They guard against panics and hangs on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// генераторы, а строки ответа через reply.Decode.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
