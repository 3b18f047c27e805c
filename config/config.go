package config

var (
	Float = map[string]float64{
		"living_reward": -1.0,
		"sleep_time":    0.0}

	Int = map[string]int{
		"image_height":       120,
		"image_width":        160,
		"image_channels":     3,
		"episodes":           10,
		"episode_timeout":    200,
		"episode_start_time": 10,
		"average_over":       50,
		"random_seed":        3}

	String = map[string]string{
		"in_logfile":  "log.txt",
		"out_logfile": "log.txt",
		"graph_path":  "vizdoom/graph.png",
		"y_axis":      "reward"}
)
