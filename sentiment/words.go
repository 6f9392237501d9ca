package sentiment

// Polarity and subjectivity for common English opinion words.
var defaultWords = map[string]entry{
	// positive
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"excellent":     {1.0, 1.0},
	"amazing":       {0.6, 0.9},
	"awesome":       {1.0, 1.0},
	"wonderful":     {1.0, 1.0},
	"fantastic":     {0.4, 0.9},
	"brilliant":     {0.9, 1.0},
	"best":          {1.0, 0.3},
	"better":        {0.5, 0.5},
	"beautiful":     {0.85, 1.0},
	"nice":          {0.6, 1.0},
	"happy":         {0.8, 1.0},
	"glad":          {0.5, 1.0},
	"love":          {0.5, 0.6},
	"loved":         {0.7, 0.8},
	"lovely":        {0.5, 0.75},
	"perfect":       {1.0, 1.0},
	"positive":      {0.23, 0.55},
	"success":       {0.3, 0.0},
	"successful":    {0.75, 0.95},
	"strong":        {0.43, 0.73},
	"impressive":    {1.0, 1.0},
	"remarkable":    {0.75, 0.75},
	"outstanding":   {0.5, 0.5},
	"heroic":        {0.6, 0.8},
	"hopeful":       {0.5, 0.6},
	"promising":     {0.5, 0.6},
	"safe":          {0.5, 0.5},
	"fair":          {0.7, 0.9},
	"honest":        {0.6, 0.9},
	"helpful":       {0.5, 0.5},
	"popular":       {0.6, 0.8},
	"important":     {0.4, 1.0},
	"interesting":   {0.5, 0.5},
	"exciting":      {0.3, 0.8},
	"win":           {0.8, 0.4},
	"victory":       {0.5, 0.6},
	"celebrated":    {0.4, 0.6},
	"praised":       {0.5, 0.7},
	"thrilled":      {0.6, 0.9},

	// negative
	"bad":           {-0.7, 0.67},
	"worse":         {-0.4, 0.6},
	"worst":         {-1.0, 1.0},
	"terrible":      {-1.0, 1.0},
	"horrible":      {-1.0, 1.0},
	"awful":         {-1.0, 1.0},
	"poor":          {-0.4, 0.6},
	"sad":           {-0.5, 1.0},
	"angry":         {-0.5, 1.0},
	"hate":          {-0.8, 0.9},
	"hated":         {-0.9, 0.7},
	"ugly":          {-0.7, 1.0},
	"stupid":        {-0.8, 1.0},
	"ridiculous":    {-0.33, 0.67},
	"disgusting":    {-1.0, 1.0},
	"disgraceful":   {-0.8, 0.9},
	"shameful":      {-0.8, 0.9},
	"shocking":      {-1.0, 1.0},
	"outrageous":    {-0.6, 0.9},
	"appalling":     {-0.9, 1.0},
	"dangerous":     {-0.6, 0.9},
	"corrupt":       {-0.5, 0.5},
	"evil":          {-1.0, 1.0},
	"wrong":         {-0.5, 0.9},
	"false":         {-0.4, 0.6},
	"failed":        {-0.5, 0.3},
	"failure":       {-0.32, 0.3},
	"disaster":      {-0.7, 0.6},
	"disastrous":    {-0.8, 0.8},
	"catastrophic":  {-0.9, 0.9},
	"crisis":        {-0.3, 0.4},
	"chaos":         {-0.5, 0.6},
	"chaotic":       {-0.6, 0.7},
	"weak":          {-0.38, 0.69},
	"scandal":       {-0.5, 0.6},
	"scandalous":    {-0.7, 0.9},
	"controversial": {-0.2, 0.6},
	"violent":       {-0.8, 0.9},
	"brutal":        {-0.88, 1.0},
	"cruel":         {-1.0, 1.0},
	"furious":       {-0.8, 1.0},
	"slammed":       {-0.4, 0.5},
	"blasted":       {-0.4, 0.5},
	"attacked":      {-0.3, 0.3},
	"worried":       {-0.3, 0.7},
	"fear":          {-0.3, 0.6},
	"afraid":        {-0.6, 0.9},
	"unfair":        {-0.5, 0.9},
	"dishonest":     {-0.6, 0.9},
	"aggressive":    {-0.2, 0.6},
	"extreme":       {-0.125, 1.0},
	"radical":       {-0.1, 0.7},
	"sick":          {-0.71, 0.86},
	"lost":          {-0.3, 0.3},

	// neutral but subjective
	"obvious":       {0.0, 0.5},
	"clear":         {0.1, 0.38},
	"certain":       {0.21, 0.57},
	"ambitious":     {0.1, 0.6},
	"confident":     {0.5, 0.8},
	"supportive":    {0.4, 0.6},
	"compassionate": {0.4, 0.7},
}

// Multipliers applied to the next sentiment word
var defaultIntensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"extremely":  1.5,
	"incredibly": 1.5,
	"absolutely": 1.4,
	"totally":    1.3,
	"utterly":    1.4,
	"truly":      1.2,
	"highly":     1.3,
	"deeply":     1.3,
	"so":         1.2,
	"most":       1.2,
	"slightly":   0.5,
	"somewhat":   0.6,
	"barely":     0.4,
	"fairly":     0.8,
}

// Words that negate the following sentiment word. "t" is the trailing
// token left by contractions such as "didn't".
var defaultNegations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nor":     true,
	"nothing": true,
	"hardly":  true,
	"t":       true,
}
