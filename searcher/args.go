package searcher

// Hyperparameters for MCTS

const C_SQUARED = 2.0

// Use rewards to estimate the chance of winning
const WIN = 1.0
const LOSS = 1 - WIN
const DRAW = (WIN + LOSS) / 2

// DEFAULT_EPISODES bounds a search when neither episodes nor a duration is set.
const DEFAULT_EPISODES = 2000
