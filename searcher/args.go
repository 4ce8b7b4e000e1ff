package searcher

// Hyperparameters for MCTS

const DefaultCPuct = 5.0

const DefaultPlayouts = 400

const DefaultRolloutLimit = 1000

// Leaf values from the perspective of the player to move
const WIN = 1.0
const LOSS = -WIN
const DRAW = 0.0
