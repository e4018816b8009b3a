package app

// PlayersPerTable is the fixed number of seats at a piquet table.
const PlayersPerTable = 2

// DefaultDealsPerPartie is the classic partie length when no table
// configuration overrides it.
const DefaultDealsPerPartie = 6
