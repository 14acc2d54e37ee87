package services

import "time"

// timeNow is swapped out in tests that assert on timestamps
var timeNow = time.Now

// Services defined in this package:
// - AuthService: registration, login and session introspection
// - ActionService: action CRUD and the outcome gallery
// - ParticipationService: the join flow and shape point assignment
// - InteractionService: toggle-able reactions and interest lists
// - CommentService: comments and single-level replies
// - RecommendService: ranked action suggestions with graceful fallback
