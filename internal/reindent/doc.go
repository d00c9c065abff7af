// Package reindent rewrites loosely indented automation lists with the
// canonical 0/2/4/6 indentation scheme.
//
// Назначение: построчная классификация внутри записей списка ("- id: ...")
// и перенос каждой строки на ширину, заданную её ролью.
// Не делает: разбор YAML в дерево, проверку семантики записей или IO.
// Зависимости: только стандартная библиотека.
package reindent
