
// Package fuzztests houses Go fuzz harnesses that exercise the full
// input pipeline (raw bytes -> decode -> engine drive -> verdict). Its
// goal is to smoke test robustness and guard against panics or verdict
// escalation on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые декодируют байты в
// тест-кейсы и прогоняют их через движок.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/testcase, internal/harness, internal/engine,
// internal/testkit.

package fuzztests
