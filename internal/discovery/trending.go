package discovery

var trendingPool = []string{
	"Projetor Magcubic 4K",
	"Smartwatch Ultra 2 Original",
	"Fone Lenovo LP40 Pro",
	"Drone DJI Mini 4",
	"Mochila Antifurto Premium",
	"Aspirador Robô Inteligente",
}

// TrendingKeywords returns the seasonal keyword pool in random order.
func (c *Client) TrendingKeywords() []string {
	out := make([]string, len(trendingPool))
	copy(out, trendingPool)
	for i := len(out) - 1; i > 0; i-- {
		j := c.rand.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
