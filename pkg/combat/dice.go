package combat

// clusterRackSizes are the column headings of the cluster hits table.
var clusterRackSizes = []int{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40}

// clusterTable[roll-2][column] is the number of missiles that hit.
var clusterTable = [11][13]int{
	{1, 1, 1, 1, 2, 3, 3, 3, 4, 5, 6, 10, 12},
	{1, 1, 2, 2, 2, 3, 3, 3, 4, 5, 6, 10, 12},
	{1, 1, 2, 2, 3, 4, 4, 4, 5, 6, 9, 12, 18},
	{1, 2, 2, 3, 3, 4, 5, 6, 8, 9, 12, 18, 24},
	{1, 2, 2, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{1, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{2, 2, 3, 3, 4, 5, 5, 6, 8, 9, 12, 18, 24},
	{2, 2, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},
	{2, 3, 3, 4, 5, 6, 7, 8, 10, 12, 16, 24, 32},
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40},
	{2, 3, 4, 5, 6, 8, 9, 10, 12, 15, 20, 30, 40},
}

// twoD6 returns the probability of rolling exactly sum on 2d6.
func twoD6(sum int) float64 {
	if sum < 2 || sum > 12 {
		return 0
	}
	d := sum - 7
	if d < 0 {
		d = -d
	}
	return float64(6-d) / 36
}

// ExpectedClusterHits returns the mean number of missiles from a rack that
// hit, averaged over the 2d6 cluster roll. Racks between table columns use
// the next smaller column; hits never exceed the rack size.
func ExpectedClusterHits(rackSize int) float64 {
	if rackSize <= 0 {
		return 0
	}
	col := 0
	for i, rs := range clusterRackSizes {
		if rs <= rackSize {
			col = i
		}
	}
	var mean float64
	for roll := 2; roll <= 12; roll++ {
		hits := clusterTable[roll-2][col]
		if hits > rackSize {
			hits = rackSize
		}
		mean += twoD6(roll) * float64(hits)
	}
	return mean
}

// HitProbability returns the chance of rolling targetNumber or better on 2d6.
func HitProbability(targetNumber int) float64 {
	if targetNumber <= 2 {
		return 1
	}
	if targetNumber > 12 {
		return 0
	}
	var p float64
	for roll := targetNumber; roll <= 12; roll++ {
		p += twoD6(roll)
	}
	return p
}
