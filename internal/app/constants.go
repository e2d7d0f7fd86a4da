package app

// ScriptedOpponentName is the default display name of a scripted opponent.
const ScriptedOpponentName = "AI Captain"

// SnapshotLogLines is how much of the table log a snapshot carries.
const SnapshotLogLines = 20
