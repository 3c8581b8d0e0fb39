/*
Package domain contains the core types shared by every layer of the Abacus calculator.

It defines the error taxonomy of the evaluation pipeline, the angle mode, history entries
and the serialisable session snapshot. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - AngleMode: Whether trigonometric functions read their operand as degrees or radians.
  - HistoryEntry: A submitted expression paired with its formatted result.
  - Snapshot: The plain-data copy of a session (buffer, history, memory, mode).
  - ErrorKind: The stable name of every failure the engine can report.
*/
package domain
