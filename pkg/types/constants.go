package types

// ResonanceLock is the harmony threshold. The gate authorizes intents whose
// resonance reaches it and the telemetry bridge echoes it in every payload.
const ResonanceLock = 1.67

// GoldenRatio scales the truth/love magnitude into a resonance value.
const GoldenRatio = 1.618033988749895
